package markdown

import (
	"github.com/alecthomas/chroma"
)

// folioStyle is a dark, GitHub-like palette. CSS emits it as classes so
// the site's stylesheet carries the colours.
var folioStyle = chroma.MustNewStyle("folio", chroma.StyleEntries{
	chroma.Error:                  "#f85149",
	chroma.LineHighlight:          "bg:#6e7681",
	chroma.LineNumbers:            "#6e7681",
	chroma.Background:             "#e6edf3 bg:#0d1117",
	chroma.Keyword:                "#409EC8",
	chroma.KeywordConstant:        "#79c0ff",
	chroma.KeywordPseudo:          "#79c0ff",
	chroma.Name:                   "#e6edf3",
	chroma.NameClass:              "#f0883e",
	chroma.NameConstant:           "#79c0ff",
	chroma.NameDecorator:          "#d2a8ff",
	chroma.NameEntity:             "#ffa657",
	chroma.NameException:          "#f0883e",
	chroma.NameFunction:           "#D0DB8E",
	chroma.NameLabel:              "#79c0ff",
	chroma.NameNamespace:          "#ff7b72",
	chroma.NameProperty:           "#79c0ff",
	chroma.NameTag:                "#7ee787",
	chroma.NameVariable:           "#79c0ff",
	chroma.Literal:                "#CD814B",
	chroma.LiteralDate:            "#CD814B",
	chroma.LiteralString:          "#a5d6ff",
	chroma.LiteralStringAffix:     "#CD814B",
	chroma.LiteralStringDelimiter: "#CD814B",
	chroma.LiteralStringEscape:    "#CD814B",
	chroma.LiteralStringHeredoc:   "#CD814B",
	chroma.LiteralStringRegex:     "#CD814B",
	chroma.LiteralNumber:          "#79c0ff",
	chroma.Operator:               "#ff7b72",
	chroma.Comment:                "italic #8b949e",
	chroma.CommentSpecial:         "#8b949e",
	chroma.CommentPreproc:         "#8b949e",
	chroma.Generic:                "#e6edf3",
	chroma.GenericDeleted:         "#ffa198 bg:#490202",
	chroma.GenericError:           "#ffa198",
	chroma.GenericHeading:         "#79c0ff",
	chroma.GenericInserted:        "#56d364 bg:#0f5323",
	chroma.GenericOutput:          "#8b949e",
	chroma.GenericPrompt:          "#8b949e",
	chroma.GenericStrong:          "bold",
	chroma.GenericEmph:            "italic",
	chroma.GenericSubheading:      "#79c0ff",
	chroma.GenericTraceback:       "#ff7b72",
	chroma.GenericUnderline:       "underline",
	chroma.TextWhitespace:         "#6e7681",
})
