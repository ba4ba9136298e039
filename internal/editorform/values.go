package editorform

import "net/url"

// Values is an in-memory Form.
type Values map[string]string

func (v Values) Value(id string) string     { return v[id] }
func (v Values) SetValue(id, value string) { v[id] = value }

// FromURLValues builds a Form from submitted form values, keeping the first value per key.
func FromURLValues(form url.Values) Values {
	v := make(Values, len(form))
	for k := range form {
		v[k] = form.Get(k)
	}
	return v
}
