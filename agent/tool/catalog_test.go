package tool

import "testing"

func TestInfosDescribeEveryTool(t *testing.T) {
	t.Parallel()

	infos := Infos()
	names := Names()
	if len(infos) != 6 || len(names) != 6 {
		t.Fatalf("expected 6 tools, got infos=%d names=%d", len(infos), len(names))
	}
	for i, info := range infos {
		if info.Name != names[i] {
			t.Fatalf("unexpected tool order: %s != %s", info.Name, names[i])
		}
		if info.Desc == "" {
			t.Fatalf("tool %s has no description", info.Name)
		}
		if info.ParamsOneOf == nil {
			t.Fatalf("tool %s has no params", info.Name)
		}
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	name, ok := Canonical(" getgdp ")
	if !ok || name != ToolGetGDP {
		t.Fatalf("unexpected canonical name: %q ok=%v", name, ok)
	}
	if _, ok := Canonical("math.evaluate"); ok {
		t.Fatal("expected unknown tool")
	}
}
