package config

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLogger(t *testing.T) {
	conf := NewDefaultConfig()

	installed := logrus.New()
	conf.SetLogger(installed)

	if conf.Logger().Logger != installed {
		t.Fatal("Logger() should route through the installed logger")
	}

	// and it sticks across calls
	if conf.Logger().Logger != installed {
		t.Fatal("installed logger should not be replaced by the lazy default")
	}
}

func TestSetDataDir(t *testing.T) {
	conf := NewDefaultConfig()
	conf.SetDataDir("/tmp/relaygrid_test")

	if conf.DataDir != "/tmp/relaygrid_test" {
		t.Fatalf("datadir: %s", conf.DataDir)
	}
	if conf.DatabaseDir != filepath.Join("/tmp/relaygrid_test", DefaultBadgerFile) {
		t.Fatalf("database dir should follow the datadir, got %s", conf.DatabaseDir)
	}
	if conf.Keyfile() != filepath.Join("/tmp/relaygrid_test", DefaultKeyfile) {
		t.Fatalf("keyfile: %s", conf.Keyfile())
	}
}
