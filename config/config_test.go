package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"typhoon-cone/model"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MaxStorms != Default().MaxStorms {
		t.Errorf("got MaxStorms %d, expected %d", c.MaxStorms, Default().MaxStorms)
	}
}

func TestLoadEnvFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "test.env")
	env := "TYPHOON_MAX_STORMS=3\nTYPHOON_CONE_ATTRIBUTES=r34, r50,,r64\nTYPHOON_RING_SWATH=true\n"
	if err := os.WriteFile(fn, []byte(env), 0644); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"TYPHOON_MAX_STORMS", "TYPHOON_CONE_ATTRIBUTES", "TYPHOON_RING_SWATH"} {
		t.Cleanup(func() { os.Unsetenv(k) })
	}

	c, err := Load(fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MaxStorms != 3 {
		t.Errorf("got MaxStorms %d, expected 3", c.MaxStorms)
	}
	if !c.RingSwath {
		t.Errorf("expected RingSwath to be set")
	}
	if expected := []model.AttributeID{"r34", "r50", "r64"}; !slices.Equal(c.ConeAttributes, expected) {
		t.Errorf("got cone attributes %v, expected %v", c.ConeAttributes, expected)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("TYPHOON_MAX_STORMS", "zero")
	t.Setenv("TYPHOON_SHOW_CONE", "maybe")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Errorf("expected error for invalid environment")
	}
}
