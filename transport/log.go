package transport

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger backs Master/Slave when no *logrus.Entry is supplied
// at construction, so the package stays silent by default instead of
// writing to the standard logger behind the caller's back.
func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
