package render

// Kind tags the representation a Result carries.
type Kind int

const (
	KindError Kind = iota
	KindSyntax
	KindMarkdown
	KindTable
	KindASCIIArt
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindMarkdown:
		return "markdown"
	case KindTable:
		return "table"
	case KindASCIIArt:
		return "ascii-art"
	default:
		return "error"
	}
}

// EncodingErrorMessage is shown in place of any file that fails to render.
const EncodingErrorMessage = "ENCODING ERROR"

// Result is one rendering of one file. Which fields are set depends on Kind:
//
//	KindSyntax    Text, Language
//	KindMarkdown  Text
//	KindTable     Columns, Rows
//	KindASCIIArt  Text
//	KindError     Text (the placeholder message)
//
// Styled always holds the display-ready output.
type Result struct {
	Kind     Kind
	Path     string
	Theme    string
	Text     string
	Language string
	Columns  []string
	Rows     [][]string
	Styled   string
}

// Failed reports whether r is an error placeholder.
func (r Result) Failed() bool { return r.Kind == KindError }

// Placeholder builds the error result shown for path.
func Placeholder(path, theme string) Result {
	return Result{
		Kind:   KindError,
		Path:   path,
		Theme:  theme,
		Text:   EncodingErrorMessage,
		Styled: EncodingErrorMessage,
	}
}
