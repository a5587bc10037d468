package core

// Claims is the decoded payload of a token, one instance per decode call.
type Claims map[string]any

// String returns the named claim if it is present and a string.
func (c Claims) String(name string) (string, bool) {
	v, ok := c[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
