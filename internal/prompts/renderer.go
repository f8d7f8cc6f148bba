package prompts

import "regexp"

// UserQueryKey is the placeholder a bare string input is bound to.
const UserQueryKey = "user_query"

var placeholder = regexp.MustCompile(`\$\{(\w+)\}`)

// Render replaces every ${name} whose name is present in values.
// Other placeholders are left as they are, and substituted text is never re-scanned.
func Render(template string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})
}

func RenderUserQuery(template string, userQuery string) string {
	return Render(template, map[string]string{UserQueryKey: userQuery})
}
