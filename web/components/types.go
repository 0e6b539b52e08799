package components

// HistoryItem is one thumbnail in the history strip.
type HistoryItem struct {
	Index int
	Thumb string // data URL
	Text  string
}

// ResultView is everything the result panel shows. With an empty DataURL the
// placeholder glyph is drawn and the download link is disabled.
type ResultView struct {
	Text           string
	DataURL        string
	Error          string
	PrivacyWarning bool
	SensitiveTerms []string
	Unscannable    bool
	// Notice is a non-fatal message, e.g. history could not be saved.
	Notice string
	// Fresh marks a newly generated image so it gets the appear animation.
	Fresh bool
}

// FormValues pre-fills the generator form.
type FormValues struct {
	Text            string
	Size            int
	MinSize         int
	MaxSize         int
	DotColor        string
	BackgroundColor string
	Level           string
}
