package tags

import (
	"testing"
	"time"

	"github.com/dori/tally/internal/model"
)

func day(y int, m time.Month, d int) *time.Time {
	t := model.Day(y, m, d)
	return &t
}

func TestMatches(t *testing.T) {
	tests := []struct {
		tag, filter string
		want        bool
	}{
		{"+Area", "+Area", true},
		{"+Area-Sub", "+Area", true},
		{"+Area-Sub-Deep", "+Area", true},
		{"+Area-Sub-Deep", "+Area-Sub", true},
		{"+AreaX", "+Area", false},
		{"+Area", "+Area-Sub", false},
		{"@home", "+home", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.filter, func(t *testing.T) {
			if got := Matches(tt.tag, tt.filter); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.tag, tt.filter, got, tt.want)
			}
		})
	}
}

func TestOf(t *testing.T) {
	task := model.Task{Projects: []string{"+p"}, Contexts: []string{"@c"}}
	if got := Of(&task, Projects); len(got) != 1 || got[0] != "+p" {
		t.Errorf("Projects: got %v", got)
	}
	if got := Of(&task, Contexts); len(got) != 1 || got[0] != "@c" {
		t.Errorf("Contexts: got %v", got)
	}
}

func TestParseFamily(t *testing.T) {
	for _, s := range []string{"projects", "Project", "+"} {
		if f, err := ParseFamily(s); err != nil || f != Projects {
			t.Errorf("ParseFamily(%q) = %v, %v", s, f, err)
		}
	}
	for _, s := range []string{"contexts", "context", "@"} {
		if f, err := ParseFamily(s); err != nil || f != Contexts {
			t.Errorf("ParseFamily(%q) = %v, %v", s, f, err)
		}
	}
	if _, err := ParseFamily("hashtags"); err == nil {
		t.Error("expected error")
	}
}

func find(progress []Progress, tag string) (Progress, bool) {
	for _, p := range progress {
		if p.Tag == tag {
			return p, true
		}
	}
	return Progress{}, false
}

func TestBuildActiveFiltersDropsCompletedTags(t *testing.T) {
	list := model.NewList()
	list.Add(model.Task{Subject: "a", Finished: true, Projects: []string{"+Done"}})
	list.Add(model.Task{Subject: "b", Finished: true, Projects: []string{"+Done-Sub"}})
	list.Add(model.Task{Subject: "c", Projects: []string{"+Open"}})

	active := BuildActiveFilters(list, Projects)

	if _, ok := find(active, "+Done"); ok {
		t.Error("+Done is fully completed and must be dropped")
	}
	if _, ok := find(active, "+Done-Sub"); ok {
		t.Error("+Done-Sub is fully completed and must be dropped")
	}
	p, ok := find(active, "+Open")
	if !ok {
		t.Fatal("+Open missing")
	}
	if p.Completed != 0 || p.Total != 1 {
		t.Errorf("+Open: got %d/%d, want 0/1", p.Completed, p.Total)
	}
}

func TestBuildActiveFiltersHierarchical(t *testing.T) {
	list := model.NewList()
	list.Add(model.Task{Subject: "a", Finished: true, Projects: []string{"+Area"}})
	list.Add(model.Task{Subject: "b", Finished: true, Projects: []string{"+Area-One"}})
	list.Add(model.Task{Subject: "c", Projects: []string{"+Area-Two"}})
	list.Add(model.Task{Subject: "d", Projects: []string{"+AreaX"}})

	active := BuildActiveFilters(list, Projects)

	area, ok := find(active, "+Area")
	if !ok {
		t.Fatal("+Area must stay active while +Area-Two is open")
	}
	if area.Completed != 2 || area.Total != 3 {
		t.Errorf("+Area: got %d/%d, want 2/3", area.Completed, area.Total)
	}
	if _, ok := find(active, "+Area-One"); ok {
		t.Error("+Area-One is completed")
	}
	two, ok := find(active, "+Area-Two")
	if !ok || two.Completed != 0 || two.Total != 1 {
		t.Errorf("+Area-Two: got %+v", two)
	}

	want := []string{"+Area", "+Area-Two", "+AreaX"}
	if len(active) != len(want) {
		t.Fatalf("got %d active tags, want %d: %+v", len(active), len(want), active)
	}
	for i, tag := range want {
		if active[i].Tag != tag {
			t.Errorf("position %d: got %s, want %s", i, active[i].Tag, tag)
		}
	}
}

func TestBuildActiveFiltersCountsTaskOnce(t *testing.T) {
	list := model.NewList()
	list.Add(model.Task{Contexts: []string{"@home", "@home-garden", "@home"}})

	active := BuildActiveFilters(list, Contexts)
	home, ok := find(active, "@home")
	if !ok || home.Total != 1 {
		t.Errorf("@home: got %+v", home)
	}
}

func TestBuildActiveFiltersEmptyList(t *testing.T) {
	if got := BuildActiveFilters(model.NewList(), Contexts); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestProgressRatio(t *testing.T) {
	if got := (Progress{Completed: 1, Total: 4}).Ratio(); got != 0.25 {
		t.Errorf("got %v", got)
	}
	if got := (Progress{}).Ratio(); got != 0 {
		t.Errorf("got %v", got)
	}
}

func subjects(tasks []model.Task) map[string]bool {
	out := make(map[string]bool)
	for _, t := range tasks {
		out[t.Subject] = true
	}
	return out
}

func TestVisibleTasks(t *testing.T) {
	today := model.Day(2024, 6, 10)

	list := model.NewList()
	list.Add(model.Task{Subject: "open", Projects: []string{"+a"}})
	list.Add(model.Task{Subject: "finished", Finished: true, Projects: []string{"+a"}})
	list.Add(model.Task{Subject: "untagged"})
	list.Add(model.Task{Subject: "context only", Contexts: []string{"@c"}})
	list.Add(model.Task{Subject: "sub", Projects: []string{"+a-sub"}})
	list.Add(model.Task{Subject: "deferred", Projects: []string{"+a"}, ThresholdDate: day(2024, 6, 11)})
	list.Add(model.Task{Subject: "released", Projects: []string{"+b"}, ThresholdDate: day(2024, 6, 10)})

	t.Run("no filters", func(t *testing.T) {
		got := subjects(VisibleTasks(list, Projects, nil, today))
		want := []string{"open", "sub", "released"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for _, s := range want {
			if !got[s] {
				t.Errorf("%q missing", s)
			}
		}
	})

	t.Run("exact membership", func(t *testing.T) {
		got := subjects(VisibleTasks(list, Projects, []string{"+a"}, today))
		if len(got) != 1 || !got["open"] {
			t.Errorf("got %v, want only open", got)
		}
	})

	t.Run("any filter matches", func(t *testing.T) {
		got := subjects(VisibleTasks(list, Projects, []string{"+a-sub", "+b"}, today))
		if len(got) != 2 || !got["sub"] || !got["released"] {
			t.Errorf("got %v", got)
		}
	})

	t.Run("contexts family", func(t *testing.T) {
		got := subjects(VisibleTasks(list, Contexts, nil, today))
		if len(got) != 1 || !got["context only"] {
			t.Errorf("got %v", got)
		}
	})
}

func TestVisibleTasksThresholdGating(t *testing.T) {
	list := model.NewList()
	list.Add(model.Task{Subject: "later", Contexts: []string{"@c"}, ThresholdDate: day(2024, 6, 11)})

	if got := VisibleTasks(list, Contexts, nil, model.Day(2024, 6, 10)); len(got) != 0 {
		t.Errorf("threshold tomorrow must be hidden, got %v", got)
	}
	if got := VisibleTasks(list, Contexts, nil, model.Day(2024, 6, 11)); len(got) != 1 {
		t.Errorf("threshold today must be visible, got %v", got)
	}
}

func TestVisibleTasksDoesNotMutateList(t *testing.T) {
	list := model.NewList()
	list.Add(model.Task{Subject: "a", Projects: []string{"+p"}})

	got := VisibleTasks(list, Projects, nil, model.Day(2024, 1, 1))
	got[0].Subject = "changed"
	got[0].Projects[0] = "+changed"

	task, _ := list.Get(1)
	if task.Subject != "a" || task.Projects[0] != "+p" {
		t.Errorf("list mutated: %+v", task)
	}
}
