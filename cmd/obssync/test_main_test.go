package main

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	tempHome, err := os.MkdirTemp("", "obssync-cmd-test-")
	if err != nil {
		panic(err)
	}

	if err := os.Setenv("HOME", tempHome); err != nil {
		panic(err)
	}
	if err := os.Unsetenv("XDG_CONFIG_HOME"); err != nil {
		panic(err)
	}

	code := m.Run()
	_ = os.RemoveAll(tempHome)
	os.Exit(code)
}
