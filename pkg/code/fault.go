package code

// Fault is the shape of an error payload: either Detail or FieldErrors
// Fault 错误载荷的形态：Detail 或 FieldErrors
type Fault interface {
	isFault()
}

// Detail is a flat, human readable error message
// Detail 单条可读错误信息
type Detail string

func (Detail) isFault() {}

// FieldError holds the messages for one offending field
// FieldError 单个字段的错误信息
type FieldError struct {
	Field    string
	Messages []string
}

// FieldErrors is an ordered list of field errors; the first entry is the primary one
// FieldErrors 有序字段错误列表，第一项为主要错误
type FieldErrors []FieldError

func (FieldErrors) isFault() {}

// First returns the first field error
func (fe FieldErrors) First() (FieldError, bool) {
	if len(fe) == 0 {
		return FieldError{}, false
	}
	return fe[0], true
}

// Map returns the errors keyed by field
func (fe FieldErrors) Map() map[string][]string {
	out := make(map[string][]string, len(fe))
	for _, e := range fe {
		out[e.Field] = append(out[e.Field], e.Messages...)
	}
	return out
}

// FaultMessage returns the primary human readable message of f
// FaultMessage 返回错误载荷的主要信息
func FaultMessage(f Fault) string {
	switch v := f.(type) {
	case Detail:
		return string(v)
	case FieldErrors:
		if first, ok := v.First(); ok && len(first.Messages) > 0 {
			return first.Messages[0]
		}
	}
	return ""
}
