package validation

import (
	"net/mail"
	"strings"
	"sync"
)

var registerFormats sync.Once

// emailChecker accepts bare addresses only: no display name, no quoted local
// part and a dotted domain.
type emailChecker struct{}

func (emailChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || strings.HasPrefix(s, `"`) {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
