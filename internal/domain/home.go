package domain

import "encoding/json"

// Fixed hero copy for the landing page.
const (
	HeroTitle       = "Welcome to DankServices!"
	HeroTextContent = "\n" +
		"I created this site with the intent to build projects from the ground up using FOSS. \n" +
		"Most of the projects I build and write about here will be written in Rust, but I will dip in to some other languages as necessary.\n" +
		"I'm currently working on a few projects, but I'm always looking for new ideas. If you have any suggestions, feel free to reach out to me via Email, GitHub, or Discord.\n" +
		"My contact information can be found in the footer or on the Contact page.\n" +
		"Feel free to send me any feedback you might have about the site or any of the services I'm writing. I'm always looking to improve my skills and learn new things.\n" +
		"Thanks for stopping by, and I hope you enjoy your stay!\n"
)

// HomeAggregate is assembled per home request from three upstream lists.
// The lists are kept as raw JSON so upstream payloads pass through as-is.
type HomeAggregate struct {
	HeroTitle       string `json:"heroTitle"`
	HeroTextContent string `json:"heroTextContent"`
	HeroButtonText  string `json:"heroButtonText,omitempty"`
	HeroButtonLink  string `json:"heroButtonLink,omitempty"`

	BlogPosts    json.RawMessage `json:"blogPosts"`
	RecentSeries json.RawMessage `json:"recentSeries"`
	LiveServices json.RawMessage `json:"liveServices"`
}

// NewHomeAggregate builds the aggregate with the fixed hero copy.
func NewHomeAggregate(posts, series, services json.RawMessage) HomeAggregate {
	return HomeAggregate{
		HeroTitle:       HeroTitle,
		HeroTextContent: HeroTextContent,
		BlogPosts:       posts,
		RecentSeries:    series,
		LiveServices:    services,
	}
}

// Home is the decoded form of HomeAggregate, used by page rendering.
type Home struct {
	HeroTitle       string          `json:"heroTitle"`
	HeroTextContent string          `json:"heroTextContent"`
	HeroButtonText  string          `json:"heroButtonText,omitempty"`
	HeroButtonLink  string          `json:"heroButtonLink,omitempty"`
	BlogPosts       []Post          `json:"blogPosts"`
	RecentSeries    []SeriesPreview `json:"recentSeries"`
	LiveServices    []Service       `json:"liveServices"`
}
