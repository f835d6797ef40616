package pt3

import (
	"log"
	"os"
	"strings"
)

// debugEnabled caches the PT3_DEBUG environment variable at init time
var debugEnabled = func() bool {
	value := strings.ToLower(os.Getenv("PT3_DEBUG"))
	return value == "1" || value == "true" || value == "yes"
}()

func logf(format string, args ...interface{}) {
	log.Printf("pt3: "+format, args...)
}
