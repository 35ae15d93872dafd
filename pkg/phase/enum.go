package phase

import (
	"fmt"
	"strconv"
	"strings"
)

type fmtInt int

func (i fmtInt) String() string { return strconv.Itoa(int(i)) }

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

// parseEnum matches s against names ignoring case and surrounding space.
func parseEnum(setting string, names []string, s string) (int, error) {
	v := strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, v) {
			return i, nil
		}
	}
	return 0, &ConfigError{Setting: setting, Value: s}
}

func marshalEnum(setting string, v fmt.Stringer, ok bool) ([]byte, error) {
	if !ok {
		return nil, &ConfigError{Setting: setting, Value: v.String()}
	}
	return []byte(v.String()), nil
}
