package types

// PostMeta is the listing view of a post. Slug is the name of the
// directory the post lives in.
type PostMeta struct {
	Slug    string
	Title   string
	Spoiler string
	Date    string
}

type Post struct {
	PostMeta
	Content string
}

type CSS struct {
	Data []byte
}
