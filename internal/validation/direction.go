package validation

import "strings"

// Sıralama yönleri.
const (
	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

// NormalizeDirection, "ordertype" değerini ASC veya DESC'e çevirir.
// Boş değer varsayılan olarak ASC kabul edilir; başka her değer hatadır.
func NormalizeDirection(dir string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "", DirectionAsc:
		return DirectionAsc, nil
	case DirectionDesc:
		return DirectionDesc, nil
	default:
		return "", &DirectionError{Direction: dir}
	}
}

// DirectionError, geçersiz sıralama yönünü temsil eder.
type DirectionError struct {
	Direction string
}

// Error, error arayüzünü uygular.
func (e *DirectionError) Error() string {
	return "fluentdao: invalid order direction '" + e.Direction + "': expected asc or desc"
}
