package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// idPrefix marks a reference by service ID rather than position.
const idPrefix = "id:"

// TaskRef represents a parsed task reference: either a 1-based position in
// the loaded collection or a service ID.
type TaskRef struct {
	Num int    // 0 when ID is set
	ID  string // empty when Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

func (r TaskRef) String() string {
	if r.ID != "" {
		return idPrefix + r.ID
	}
	return strconv.Itoa(r.Num)
}

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. No args → ErrTaskRefRequired
//  2. All digits → position, which must be at least 1
//  3. "id:<id>" with a non-empty id → service ID
//  4. Anything else, or trailing args → invalid task reference
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := args[0]

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		if num < 1 {
			return TaskRef{}, fmt.Errorf("task number out of range: %d", num)
		}
		return TaskRef{Num: num}, nil
	}

	if id, ok := strings.CutPrefix(arg, idPrefix); ok && strings.TrimSpace(id) != "" {
		return TaskRef{ID: id}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
