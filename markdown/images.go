package markdown

import (
	"path"
	"strings"

	"github.com/gomarkdown/markdown/ast"
)

const localPrefix = "./"

// IsRelative reports whether an image destination points at a file
// stored next to the post.
func IsRelative(dest string) bool {
	return strings.HasPrefix(dest, localPrefix)
}

// RewriteImages points relative images found in top-level paragraphs at
// base/slug/. It returns how many destinations it changed.
func RewriteImages(doc ast.Node, slug, base string) int {
	rewritten := 0
	for _, child := range doc.GetChildren() {
		p, ok := child.(*ast.Paragraph)
		if !ok {
			continue
		}
		ast.WalkFunc(p, func(node ast.Node, entering bool) ast.WalkStatus {
			img, ok := node.(*ast.Image)
			if !ok || !entering {
				return ast.GoToNext
			}
			dest := string(img.Destination)
			if IsRelative(dest) {
				img.Destination = []byte(imageURL(base, slug, dest))
				rewritten++
			}
			return ast.GoToNext
		})
	}
	return rewritten
}

func imageURL(base, slug, dest string) string {
	file := strings.TrimPrefix(dest, localPrefix)
	return strings.TrimSuffix(base, "/") + path.Join("/", slug, file)
}
