package welcome

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Placeholders are the values substituted into a welcome template.
type Placeholders struct {
	UserID      string
	Username    string
	Tag         string
	Server      string
	MemberCount int
}

// Format replaces {user}, {username}, {tag}, {server} and {memberCount}.
func Format(template string, p Placeholders) string {
	return strings.NewReplacer(
		"{user}", "<@"+p.UserID+">",
		"{username}", p.Username,
		"{tag}", p.Tag,
		"{server}", p.Server,
		"{memberCount}", strconv.Itoa(p.MemberCount),
	).Replace(template)
}

// ValidColor reports whether s is a #rrggbb colour.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

// ParseColor converts #rrggbb to an embed colour.
func ParseColor(s string) (int, error) {
	if !ValidColor(s) {
		return 0, fmt.Errorf("invalid colour %q: expected #rrggbb", s)
	}
	n, err := strconv.ParseInt(s[1:], 16, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
