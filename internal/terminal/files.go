package terminal

import "sort"

// FileTable is the fixed set of virtual files readable with cat.
type FileTable struct {
	files map[string]func(*Interpreter)
}

func newFileTable() FileTable {
	return FileTable{files: map[string]func(*Interpreter){
		"about.txt":      func(in *Interpreter) { showAbout(in, nil) },
		"contact.txt":    func(in *Interpreter) { showContact(in, nil) },
		"experience.txt": func(in *Interpreter) { showExperience(in, nil) },
		"resume.pdf": func(in *Interpreter) {
			in.emit(StyleError, `Cannot display binary file. Use "resume" command to download.`)
		},
	}}
}

// Lookup returns the content producer for a lowercase filename.
func (t FileTable) Lookup(name string) (func(*Interpreter), bool) {
	fn, ok := t.files[name]
	return fn, ok
}

// Names lists the files in lexical order.
func (t FileTable) Names() []string {
	names := make([]string, 0, len(t.files))
	for name := range t.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Files exposes the virtual file table.
func (in *Interpreter) Files() FileTable { return in.files }
