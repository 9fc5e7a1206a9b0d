package builder

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// normalizePrefix turns "/blog/", "blog" and "blog//" into "blog/". "" stays "".
func normalizePrefix(p string) string {
	p = strings.Trim(filepath.ToSlash(p), "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// emptyDir removes dir and recreates it empty. Removal is retried twice since
// editors and file servers briefly hold handles on some platforms.
func emptyDir(dir string) error {
	err := os.RemoveAll(dir)
	if err != nil {
		<-time.After(time.Millisecond * 20)
		err = os.RemoveAll(dir)
		if err != nil {
			<-time.After(time.Millisecond * 20)
			err = os.RemoveAll(dir)
			if err != nil {
				return err
			}
		}
	}

	return os.MkdirAll(dir, 0755)
}
