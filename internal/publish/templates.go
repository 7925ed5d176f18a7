package publish

import (
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	templateStartTagConstant      = "{{"
	templateEndTagConstant        = "}}"
	repositoryPlaceholderConstant = "repository"
)

// renderRepositoryTemplate substitutes {{repository}} in template. Unknown placeholders are left untouched.
func renderRepositoryTemplate(template string, repositoryName string) string {
	return strings.TrimSpace(fasttemplate.ExecuteStringStd(template, templateStartTagConstant, templateEndTagConstant, map[string]any{
		repositoryPlaceholderConstant: repositoryName,
	}))
}
