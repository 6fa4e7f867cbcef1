package util

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
)

// LoadConfig fills the fields of the struct pointed to by c from the
// environment. A field is looked up as prefix + its `env` tag (or its name).
// Strings are taken as is, everything else is parsed as JSON. Missing
// variables keep the field's current value unless it is the zero value.
func LoadConfig(prefix string, c any) error {
	rt, rc := reflect.TypeOf(c).Elem(), reflect.ValueOf(c).Elem()
	for i := 0; i < rt.NumField(); i++ {
		rft := rt.Field(i)
		if !rft.IsExported() {
			continue
		}
		k := rft.Name
		if tag := rft.Tag.Get("env"); tag != "" {
			k = tag
		}
		s, ok := os.LookupEnv(prefix + k)
		if !ok && !rc.Field(i).IsZero() {
			continue
		} else if !ok {
			return fmt.Errorf("failed to lookup %q in env", prefix+k)
		}
		if rft.Type.Kind() == reflect.String {
			rc.Field(i).SetString(s)
		} else if err := json.Unmarshal([]byte(s), rc.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("failed to unmarshal %q(%s) from %q: %w", prefix+k, rft.Type, s, err)
		}
	}
	return nil
}
