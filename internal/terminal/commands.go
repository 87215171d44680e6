package terminal

import (
	"fmt"
	"strings"
	"time"
)

const (
	matrixDelay = 2000 * time.Millisecond
	pingDelay   = 500 * time.Millisecond

	// dateLayout mirrors the default en-US locale rendering.
	dateLayout = "1/2/2006, 3:04:05 PM"
)

// Builtins returns a fresh registry holding the built-in command set.
func Builtins() (*Registry, error) {
	return NewRegistry(builtinCommands()...)
}

func builtinCommands() []Command {
	return []Command{
		{Name: "help", Summary: "Show available commands", Category: CategorySystem, Handler: showHelp},
		{Name: "about", Summary: "Learn more about me", Category: CategoryPersonal, Handler: showAbout},
		{Name: "whoami", Summary: "Display user information", Category: CategoryPersonal, Handler: showWhoami},
		{Name: "skills", Summary: "View technical skills", Category: CategoryPersonal, Handler: showSkills},
		{Name: "projects", Summary: "Show my projects", Category: CategoryPersonal, Handler: showProjects},
		{Name: "experience", Summary: "Work experience", Category: CategoryPersonal, Handler: showExperience},
		{Name: "education", Summary: "Educational background", Category: CategoryPersonal, Handler: showEducation},
		{Name: "contact", Summary: "Contact information", Category: CategoryPersonal, Handler: showContact},
		{Name: "ls", Summary: "List directory contents", Category: CategorySystem, Handler: listFiles},
		{Name: "cat", Usage: "cat [file]", Summary: "Display file contents", Category: CategorySystem, Handler: catFile},
		{Name: "clear", Summary: "Clear terminal", Category: CategorySystem, Handler: clearTranscript},
		{Name: "date", Summary: "Show current date", Category: CategorySystem, Handler: showDate},
		{Name: "pwd", Summary: "Print working directory", Category: CategorySystem, Handler: showPwd},
		{Name: "echo", Usage: "echo [text]", Summary: "Display text", Category: CategorySystem, Handler: echo},
		{Name: "matrix", Summary: "Enter the Matrix", Category: CategoryFun, Handler: matrix},
		{Name: "joke", Summary: "Random programming joke", Category: CategoryFun, Handler: showJoke},
		{Name: "quote", Summary: "Inspirational quote", Category: CategoryFun, Handler: showQuote},
		{Name: "github", Summary: "Open GitHub profile", Category: CategoryLinks, Handler: openGitHub},
		{Name: "linkedin", Summary: "Open LinkedIn profile", Category: CategoryLinks, Handler: openLinkedIn},
		{Name: "resume", Summary: "Download resume", Category: CategoryLinks, Handler: downloadResume},
		{Name: "ping", Summary: "Test connection", Category: CategoryFun, Handler: ping},
	}
}

var helpSections = []Category{CategoryPersonal, CategorySystem, CategoryFun, CategoryLinks}

func showHelp(in *Interpreter, _ []string) {
	lines := []string{"Available Commands:"}
	for _, section := range helpSections {
		lines = append(lines, "", string(section)+":")
		for _, cmd := range in.registry.Commands() {
			if cmd.Category != section || cmd.Name == "help" {
				continue
			}
			lines = append(lines, fmt.Sprintf("  • %s - %s", cmd.Usage, cmd.Summary))
		}
	}
	lines = append(lines, "", "Use Tab for auto-completion and ↑/↓ for command history")
	in.emit(StyleInfo, lines...)
}

func showWhoami(in *Interpreter, _ []string) {
	p := in.profile
	in.emit(StyleSuccess,
		p.Name,
		"Role: "+p.Role,
		"Location: "+p.Location,
		"Passion: "+p.Passion,
	)
}

func showAbout(in *Interpreter, _ []string) {
	lines := []string{"About Me:", ""}
	lines = append(lines, in.profile.About...)
	lines = append(lines, "", "Interests:")
	for _, interest := range in.profile.Interests {
		lines = append(lines, "  • "+interest)
	}
	in.emit(StylePlain, lines...)
}

func showSkills(in *Interpreter, _ []string) {
	lines := []string{"Technical Skills:"}
	for _, group := range in.profile.Skills {
		lines = append(lines, "", group.Name+":")
		for _, item := range group.Items {
			lines = append(lines, "  • "+item)
		}
	}
	in.emit(StylePlain, lines...)
}

func showProjects(in *Interpreter, _ []string) {
	lines := []string{"Featured Projects:"}
	for _, p := range in.profile.Projects {
		lines = append(lines, "", p.Title, p.Summary, "Tech: "+p.Tech, "GitHub → "+p.URL)
	}
	lines = append(lines, "", "Use 'cat project_name' for detailed information about specific projects")
	in.emit(StylePlain, lines...)
}

func showExperience(in *Interpreter, _ []string) {
	lines := []string{"Work Experience:"}
	for _, pos := range in.profile.Experience {
		lines = append(lines, "", pos.Title, pos.Org+" | "+pos.Period, "")
		for _, h := range pos.Highlights {
			lines = append(lines, "  • "+h)
		}
	}
	in.emit(StylePlain, lines...)
}

func showEducation(in *Interpreter, _ []string) {
	lines := []string{"Education:"}
	for _, d := range in.profile.Education {
		lines = append(lines, "", d.Title, d.School+" | "+d.Period)
		if d.Note != "" {
			lines = append(lines, d.Note)
		}
	}
	in.emit(StylePlain, lines...)
}

func showContact(in *Interpreter, _ []string) {
	p := in.profile
	in.emit(StyleSuccess,
		"Contact Information:",
		"",
		"Email: "+p.Email,
		"Location: "+p.Location,
		"LinkedIn: "+p.LinkedInURL,
		"GitHub: "+p.GitHubURL,
		"Portfolio: "+p.PortfolioURL,
	)
}

func listFiles(in *Interpreter, _ []string) {
	owner := in.profile.User
	row := func(mode string, links, size int, name string) string {
		return fmt.Sprintf("%s  %d %s %s %4d Sep 20 20:30 %s", mode, links, owner, owner, size, name)
	}
	in.emit(StylePlain,
		row("drwxr-xr-x", 2, 4096, "projects/"),
		row("drwxr-xr-x", 2, 4096, "skills/"),
		row("-rw-r--r--", 1, 2048, "about.txt"),
		row("-rw-r--r--", 1, 1024, "resume.pdf"),
		row("-rw-r--r--", 1, 512, "contact.txt"),
		row("-rw-r--r--", 1, 256, "experience.txt"),
	)
}

func catFile(in *Interpreter, args []string) {
	if len(args) == 0 {
		in.emit(StyleError, "Usage: cat [filename]")
		return
	}
	filename := strings.ToLower(args[0])
	produce, ok := in.files.Lookup(filename)
	if !ok {
		in.emit(StyleError, fmt.Sprintf("cat: %s: No such file or directory", filename))
		return
	}
	produce(in)
}

func clearTranscript(in *Interpreter, _ []string) {
	in.output.Clear()
}

func showDate(in *Interpreter, _ []string) {
	in.emit(StylePlain, in.now().Local().Format(dateLayout))
}

func showPwd(in *Interpreter, _ []string) {
	in.emit(StylePlain, in.profile.Home)
}

func echo(in *Interpreter, args []string) {
	in.emit(StylePlain, strings.Join(args, " "))
}

func matrix(in *Interpreter, _ []string) {
	in.emit(StyleSuccess, "Entering the Matrix...")
	in.deferBlock(matrixDelay, StylePlain, "Welcome to the real world, Neo.")
}

func showJoke(in *Interpreter, _ []string) {
	in.emit(StyleSuccess, pick(in, in.profile.Jokes))
}

func showQuote(in *Interpreter, _ []string) {
	in.emit(StyleInfo, pick(in, in.profile.Quotes))
}

func pick(in *Interpreter, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[in.rand.IntN(len(items))]
}

func openGitHub(in *Interpreter, _ []string) {
	in.open(in.profile.GitHubURL)
	in.emit(StyleSuccess, "Opening GitHub profile...")
}

func openLinkedIn(in *Interpreter, _ []string) {
	in.open(in.profile.LinkedInURL)
	in.emit(StyleSuccess, "Opening LinkedIn profile...")
}

func downloadResume(in *Interpreter, _ []string) {
	in.emit(StyleInfo, "Resume download would start here...")
}

func ping(in *Interpreter, _ []string) {
	p := in.profile
	in.emit(StylePlain, fmt.Sprintf("PING %s (%s): 56 bytes", p.PingHost, p.PingAddr))
	in.deferBlock(pingDelay, StyleSuccess, fmt.Sprintf("64 bytes from %s: icmp_seq=0 time=1.337ms", p.PingAddr))
}
