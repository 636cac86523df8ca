package config

import "time"

// Default configuration values.
const (
	DefaultDatabasesDir = "databases"
	DefaultExtension    = ".db"
	DefaultDriver       = "sqlite"
	DefaultQueryTimeout = 30 * time.Second
	DefaultPort         = 8501
	DefaultTitle        = "SQL Playground"
)

// DefaultProjectLinks are shown on the Projects page when none are configured.
func DefaultProjectLinks() []Link {
	return []Link{
		{Label: "Django documentation", URL: "https://shashankvh.pythonanywhere.com"},
		{Label: "Terminal Portfolio", URL: "https://shashankvh.pythonanywhere.com/terminal"},
	}
}

// DefaultContactLinks are shown on the Contact page when none are configured.
func DefaultContactLinks() []Link {
	return []Link{
		{Label: "email", URL: "https://mail.google.com/mail/?view=cm&fs=1&to=shashankvmh4@gmail.com&su=connect"},
		{Label: "linkedin", URL: "https://www.linkedin.com/in/shashank-v-h-a13538229/"},
	}
}

// ApplyPageDefaults fills empty link lists with the defaults.
func ApplyPageDefaults(p *PagesConfig) {
	if p == nil {
		return
	}
	if len(p.Projects) == 0 {
		p.Projects = DefaultProjectLinks()
	}
	if len(p.Contact) == 0 {
		p.Contact = DefaultContactLinks()
	}
}
