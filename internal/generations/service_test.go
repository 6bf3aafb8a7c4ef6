package generations

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"resume-vault/internal/resume"
	"resume-vault/internal/shared/apperr"
)

func newTestService() *Service {
	n := 0
	return &Service{
		Repo: NewMemoryRepo(),
		Now:  func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("job-%d", n)
		},
	}
}

func firstVersion() Version {
	return Version{Format: FormatHTML, Content: "<html>v1</html>", CoverLetter: "Dear Hiring Manager,", ATSScores: ATSScores{Resume: 80, CoverLetter: 70}}
}

func TestCreateStoresVersionOne(t *testing.T) {
	svc := newTestService()
	g, err := svc.Create(context.Background(), "u1", resume.JobPosting{CompanyName: "Acme", Position: "Eng"}, Version{IsEdited: true, VersionNumber: 7})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.JobApplicationID != "job-1" || g.CurrentVersion != 1 || len(g.Versions) != 1 {
		t.Fatalf("unexpected generation: %+v", g)
	}
	if v := g.Versions[0]; v.VersionNumber != 1 || v.IsEdited {
		t.Fatalf("first version must be 1 and unedited: %+v", v)
	}
}

func TestRegenerateOnceYieldsTwoVersions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _ := svc.Create(ctx, "u1", resume.JobPosting{}, firstVersion())

	v2, err := svc.AppendEdited(ctx, "u1", g.JobApplicationID, Version{Format: FormatHTML, Content: "<html>v2</html>"})
	if err != nil {
		t.Fatalf("AppendEdited: %v", err)
	}
	if v2.VersionNumber != 2 || !v2.IsEdited {
		t.Fatalf("unexpected v2: %+v", v2)
	}

	got, err := svc.Get(ctx, "u1", g.JobApplicationID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Versions) != 2 || got.CurrentVersion != 2 {
		t.Fatalf("expected 2 versions, current 2: %+v", got)
	}
	if v1 := got.Versions[0]; v1.Content != "<html>v1</html>" || v1.IsEdited {
		t.Fatalf("v1 changed: %+v", v1)
	}
}

func TestNthAppendYieldsVersionNPlusOne(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _ := svc.Create(ctx, "u1", resume.JobPosting{}, firstVersion())

	for n := 1; n <= 5; n++ {
		v, err := svc.AppendEdited(ctx, "u1", g.JobApplicationID, Version{Content: fmt.Sprintf("v%d", n+1)})
		if err != nil {
			t.Fatalf("append %d: %v", n, err)
		}
		if v.VersionNumber != n+1 {
			t.Fatalf("append %d produced version %d", n, v.VersionNumber)
		}
	}
	got, _ := svc.Get(ctx, "u1", g.JobApplicationID)
	if got.CurrentVersion != 6 {
		t.Fatalf("currentVersion = %d", got.CurrentVersion)
	}
	for i, v := range got.Versions {
		if v.VersionNumber != i+1 {
			t.Fatalf("versions not contiguous at %d: %d", i, v.VersionNumber)
		}
	}
}

func TestConcurrentAppendsStayContiguous(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _ := svc.Create(ctx, "u1", resume.JobPosting{}, firstVersion())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AppendEdited(ctx, "u1", g.JobApplicationID, Version{}); err != nil {
				t.Errorf("AppendEdited: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := svc.Get(ctx, "u1", g.JobApplicationID)
	if got.CurrentVersion != 21 || len(got.Versions) != 21 {
		t.Fatalf("expected 21 versions, got current=%d len=%d", got.CurrentVersion, len(got.Versions))
	}
	for i, v := range got.Versions {
		if v.VersionNumber != i+1 {
			t.Fatalf("version %d has number %d", i+1, v.VersionNumber)
		}
	}
}

func TestOtherUsersGenerationIsNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _ := svc.Create(ctx, "u1", resume.JobPosting{}, firstVersion())

	if _, err := svc.Get(ctx, "u2", g.JobApplicationID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.AppendEdited(ctx, "u2", g.JobApplicationID, Version{}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Get(ctx, "u1", "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetVersion(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _ := svc.Create(ctx, "u1", resume.JobPosting{}, firstVersion())
	_, _ = svc.AppendEdited(ctx, "u1", g.JobApplicationID, Version{Content: "v2"})

	_, cur, err := svc.GetVersion(ctx, "u1", g.JobApplicationID, 0)
	if err != nil || cur.VersionNumber != 2 {
		t.Fatalf("current version: %+v %v", cur, err)
	}
	_, v1, err := svc.GetVersion(ctx, "u1", g.JobApplicationID, 1)
	if err != nil || v1.Content != "<html>v1</html>" {
		t.Fatalf("version 1: %+v %v", v1, err)
	}
	if _, _, err := svc.GetVersion(ctx, "u1", g.JobApplicationID, 3); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for v3, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := &Service{Repo: repo, Now: func() time.Time { clock = clock.Add(time.Minute); return clock }}
	ctx := context.Background()
	a, _ := svc.Create(ctx, "u1", resume.JobPosting{CompanyName: "A"}, firstVersion())
	b, _ := svc.Create(ctx, "u1", resume.JobPosting{CompanyName: "B"}, firstVersion())
	_, _ = svc.Create(ctx, "u2", resume.JobPosting{CompanyName: "C"}, firstVersion())
	_, _ = svc.AppendEdited(ctx, "u1", a.JobApplicationID, Version{})

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].JobApplicationID != b.JobApplicationID {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[1].TotalVersions != 2 || list[1].CurrentVersion != 2 || list[1].CompanyName != "A" {
		t.Fatalf("unexpected summary: %+v", list[1])
	}
}

func TestMemoryRepoRejectsMalformedCreate(t *testing.T) {
	repo := NewMemoryRepo()
	err := repo.Create(context.Background(), Generation{JobApplicationID: "j", UserID: "u", CurrentVersion: 2, Versions: []Version{{VersionNumber: 2}}})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
