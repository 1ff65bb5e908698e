package student

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

const (
	classCodeLen = 4
	maxSerial    = 999
)

var (
	nowFunc = time.Now // mockable

	errSerialsExhausted = errors.New("no registration number left for this class and year")
)

// classCode keeps the first 4 non-space characters of the class name, upper-cased.
func classCode(className string) string {
	code := make([]rune, 0, classCodeLen)
	for _, r := range className {
		if unicode.IsSpace(r) {
			continue
		}
		code = append(code, unicode.ToUpper(r))
		if len(code) == classCodeLen {
			break
		}
	}
	return string(code)
}

// regNoPrefix returns "<classcode><year>".
func regNoPrefix(className string) string {
	return classCode(className) + strconv.Itoa(nowFunc().Year())
}

// nextRegNo picks the lowest 3-digit serial not already used under prefix.
func nextRegNo(prefix string, taken []string) (string, error) {
	used := make(map[int]bool, len(taken))
	for _, regNo := range taken {
		if !strings.HasPrefix(regNo, prefix) {
			continue
		}
		if n, err := strconv.Atoi(regNo[len(prefix):]); err == nil {
			used[n] = true
		}
	}
	for serial := 1; serial <= maxSerial; serial++ {
		if !used[serial] {
			return fmt.Sprintf("%s%03d", prefix, serial), nil
		}
	}
	return "", core.NewConflictError(errSerialsExhausted)
}
