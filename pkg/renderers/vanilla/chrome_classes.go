package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm    ChromeClass = "roleform-form"
	ClassHeader  ChromeClass = "roleform-header"
	ClassField   ChromeClass = "roleform-field"
	ClassNotices ChromeClass = "roleform-notices"
	ClassExport  ChromeClass = "roleform-export"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"form":     string(ClassForm),
		"header":   string(ClassHeader),
		"field":    string(ClassField),
		"notices":  string(ClassNotices),
		"download": string(ClassExport),
	}
}
