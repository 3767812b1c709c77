package normalizer

import "fmt"

// Transform is one normalization step applied to a field value.
type Transform func(string) (string, error)

// TryTransform runs t on in. On error or panic it returns in unchanged and false.
func TryTransform(t Transform, in string) (out string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = in, false
		}
	}()

	res, err := t(in)
	if err != nil {
		return in, false
	}

	return res, true
}

// FieldError describes a field whose transformation fell back to its previous value.
type FieldError struct {
	Field string
	Value string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %q kept raw value %q", e.Field, e.Value)
}
