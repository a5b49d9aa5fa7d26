package omitnil

import (
	"reflect"
)

// OmitNilPointers drops nil values and nil pointers from fields and
// dereferences the pointers it keeps.
func OmitNilPointers(fields map[string]any) map[string]any {
	omitted := make(map[string]any)
	for key, value := range fields {
		if value == nil {
			continue
		}

		v := reflect.ValueOf(value)
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				continue
			}
			omitted[key] = v.Elem().Interface()
		} else {
			omitted[key] = value
		}
	}

	return omitted
}
