package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"serve": false, "migrate": false, "assign": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("нет команды %q", name)
		}
	}
}

func TestMissingConfigFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	for _, sub := range []string{"migrate", "assign"} {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs([]string{sub})
		err := root.Execute()
		if err == nil {
			t.Fatalf("%s: ожидали ошибку конфигурации", sub)
		}
		if !strings.Contains(err.Error(), "DATABASE_URL") || !strings.Contains(err.Error(), "JWT_SECRET") {
			t.Fatalf("%s: в ошибке нет имён переменных: %v", sub, err)
		}
	}
}
