package terminal

// SkillGroup is one column of the skills listing.
type SkillGroup struct {
	Name  string
	Items []string
}

// Project is a featured project entry.
type Project struct {
	Title   string
	Summary string
	Tech    string
	URL     string
}

// Position is a work experience entry.
type Position struct {
	Title      string
	Org        string
	Period     string
	Highlights []string
}

// Degree is an education entry.
type Degree struct {
	Title  string
	School string
	Period string
	Note   string
}

// Profile holds the static content rendered by the built-in commands.
type Profile struct {
	Name     string
	User     string
	Host     string
	Role     string
	Location string
	Passion  string
	Home     string
	PingHost string
	PingAddr string

	Email        string
	GitHubURL    string
	LinkedInURL  string
	PortfolioURL string

	About      []string
	Interests  []string
	Skills     []SkillGroup
	Projects   []Project
	Experience []Position
	Education  []Degree

	Jokes  []string
	Quotes []string
}

// PromptLabel is the prefix shown before echoed command lines.
func (p Profile) PromptLabel() string {
	return p.User + "@" + p.Host + ":~$"
}

// DefaultProfile returns the content shipped with the portfolio.
func DefaultProfile() Profile {
	return Profile{
		Name:     "Nitish Kumar Sarma",
		User:     "nitish",
		Host:     "portfolio",
		Role:     "Full-Stack Developer & Frontend Specialist",
		Location: "Bangalore, Karnataka",
		Passion:  "Building innovative web applications and exploring new technologies",
		Home:     "/home/nitish/portfolio",
		PingHost: "portfolio.nitish.dev",
		PingAddr: "127.0.0.1",

		Email:        "nitishsarma8@gmail.com",
		GitHubURL:    "https://github.com/Nitishsarma45678",
		LinkedInURL:  "https://www.linkedin.com/in/himjyoti-talukdar-21411222b/",
		PortfolioURL: "https://h1mzy0ti.github.io/himzyoti-portfolio/",

		About: []string{
			"Passionate full-stack developer with expertise in modern web technologies",
			"Completed an internship as Associate Software Engineer at Sysfore Technologies (September 2025)",
			"Completed Master's in Computer Science from Kristu Jayanti College",
			"Specialized in Microsoft Power Platform and web development",
			"Always eager to learn new technologies and solve complex problems",
		},
		Interests: []string{
			"Web Application Development",
			"IoT & Embedded Systems",
			"Cybersecurity",
			"UI/UX Design",
			"Open Source Contributions",
		},
		Skills: []SkillGroup{
			{Name: "Frontend", Items: []string{"JavaScript", "React", "HTML/CSS", "Responsive Design"}},
			{Name: "Backend", Items: []string{"Python", "Flask", "SQLite", "MySQL"}},
			{Name: "Platform", Items: []string{"Power Platform", "Dataverse", "Power Automate", "Power Pages"}},
			{Name: "Tools", Items: []string{"Git & GitHub", "Postman", "Linux", "VS Code"}},
		},
		Projects: []Project{
			{
				Title:   "HealthAnalyzer Pro",
				Summary: "Intelligent health monitoring system with real-time risk assessment",
				Tech:    "Flask, SQLite, JavaScript, HTML/CSS",
				URL:     "https://github.com/Nitishsarma45678/healthanalyzer-pro",
			},
			{
				Title:   "Project Polaris",
				Summary: "Battery-powered embedded system with custom touchscreen UI",
				Tech:    "ESP8266, C/C++, TFT Display, IoT",
				URL:     "https://github.com/Nitishsarma45678/Project-Polaris",
			},
			{
				Title:   "HIDS Security System",
				Summary: "Real-time network intrusion detection with packet analysis",
				Tech:    "Python, Scapy, Flask, Cybersecurity",
				URL:     "https://github.com/Nitishsarma45678/HostAware-Intrusion-Detection-System",
			},
		},
		Experience: []Position{
			{
				Title:  "Associate Software Engineer, Trainee",
				Org:    "Sysfore Technologies Pvt. Ltd.",
				Period: "April 2025 - Sept 2025",
				Highlights: []string{
					"Developed end-to-end solutions across Power Platform ecosystem",
					"Designed and optimized Dataverse data models and business rules",
					"Automated approval workflows using Power Automate",
					"Contributed to requirement analysis and solution delivery",
				},
			},
		},
		Education: []Degree{
			{Title: "Master of Computer Science", School: "Kristu Jayanti College, Bangalore", Period: "2023 - 2025"},
			{
				Title:  "Bachelor of Computer Application",
				School: "Assam Downtown University, Guwahati",
				Period: "2020 - 2023",
				Note:   "Specialization: Cloud Technology and Information Security",
			},
		},
		Jokes: []string{
			"Why do programmers prefer dark mode? Because light attracts bugs!",
			"How many programmers does it take to change a light bulb? None, that's a hardware problem!",
			"Why do Java developers wear glasses? Because they can't C#!",
			"A SQL query goes into a bar, walks up to two tables and asks: 'Can I join you?'",
			"Why did the programmer quit his job? He didn't get arrays!",
		},
		Quotes: []string{
			`"Code is like humor. When you have to explain it, it's bad." - Cory House`,
			`"First, solve the problem. Then, write the code." - John Johnson`,
			`"The best error message is the one that never shows up." - Thomas Fuchs`,
			`"Simplicity is the soul of efficiency." - Austin Freeman`,
			`"Make it work, make it right, make it fast." - Kent Beck`,
		},
	}
}
