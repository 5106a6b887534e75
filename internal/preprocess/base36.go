package preprocess

import "strconv"

// base36 encodes n in lowercase base 36. Zero encodes as the empty string,
// which keeps the first placeholder as short as possible.
func base36(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.FormatInt(int64(n), 36)
}
