package library

import (
	"context"
	"sort"
	"sync"
	"testing"

	"scribe-ai-api/internal/domain/document"
	"scribe-ai-api/internal/domain/entity"
)

// fakeDocRepo 内存文档仓储桩
type fakeDocRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.DocumentRecord
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{rows: make(map[string]*entity.DocumentRecord)}
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *entity.DocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *doc
	f.rows[doc.ID] = &cp
	return nil
}

func (f *fakeDocRepo) GetByID(ctx context.Context, id string) (*entity.DocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDocRepo) GetByUserAndFilename(ctx context.Context, userID, filename string) (*entity.DocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.UserID == userID && row.Filename == filename {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeDocRepo) Update(ctx context.Context, doc *entity.DocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *doc
	f.rows[doc.ID] = &cp
	return nil
}

func (f *fakeDocRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeDocRepo) ListByUser(ctx context.Context, userID string) ([]*entity.DocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.DocumentRecord
	for _, row := range f.rows {
		if row.UserID == userID {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// fakeSnapRepo 内存快照仓储桩
type fakeSnapRepo struct {
	mu   sync.Mutex
	rows []*entity.DocumentSnapshot
}

func (f *fakeSnapRepo) Create(ctx context.Context, snapshot *entity.DocumentSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *snapshot
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeSnapRepo) GetByID(ctx context.Context, id string) (*entity.DocumentSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSnapRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.DocumentSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.DocumentSnapshot
	for _, row := range f.rows {
		if row.DocumentID == documentID {
			cp := *row
			out = append(out, &cp)
		}
	}
	// 桩里以插入顺序代替时间序，倒序返回
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (f *fakeSnapRepo) PruneToLatest(ctx context.Context, documentID string, keep int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []*entity.DocumentSnapshot
	var others []*entity.DocumentSnapshot
	for _, row := range f.rows {
		if row.DocumentID == documentID {
			mine = append(mine, row)
		} else {
			others = append(others, row)
		}
	}
	if len(mine) > keep {
		mine = mine[len(mine)-keep:]
	}
	f.rows = append(others, mine...)
	return nil
}

func (f *fakeSnapRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*entity.DocumentSnapshot
	for _, row := range f.rows {
		if row.DocumentID != documentID {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeSnapRepo) count(documentID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, row := range f.rows {
		if row.DocumentID == documentID {
			n++
		}
	}
	return n
}

func newTestService(docs *fakeDocRepo, snaps *fakeSnapRepo, keep int) *Service {
	return NewService(docs, snaps, nil, nil, Options{SnapshotKeep: keep, ListCacheTTL: DefaultOptions().ListCacheTTL})
}

func sampleDoc(title string) *document.Document {
	doc := document.New(title)
	s := doc.AddSection()
	s.UserText = "draft text"
	return doc
}

func TestSaveCreatesAndOverwrites(t *testing.T) {
	docs := newFakeDocRepo()
	snaps := &fakeSnapRepo{}
	svc := newTestService(docs, snaps, 10)
	ctx := context.Background()

	if err := svc.Save(ctx, "user-1", "essay", sampleDoc("v1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Save(ctx, "user-1", "essay.json", sampleDoc("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	loaded, err := svc.Load(ctx, "user-1", "essay.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Title != "v2" {
		t.Fatalf("title = %q, want v2", loaded.Title)
	}

	infos, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("list length = %d, want 1 (overwrite must not create a second row)", len(infos))
	}
	if infos[0].Filename != "essay.json" || infos[0].Title != "v2" || infos[0].Size == 0 {
		t.Fatalf("list entry mismatch: %+v", infos[0])
	}
}

func TestSaveAsRejectsExisting(t *testing.T) {
	svc := newTestService(newFakeDocRepo(), &fakeSnapRepo{}, 10)
	ctx := context.Background()

	if err := svc.SaveAs(ctx, "user-1", "essay", sampleDoc("a")); err != nil {
		t.Fatalf("save as: %v", err)
	}
	if err := svc.SaveAs(ctx, "user-1", "essay", sampleDoc("b")); err == nil {
		t.Fatal("save as over an existing document must fail")
	}
	// 另一个用户可以使用同名文件
	if err := svc.SaveAs(ctx, "user-2", "essay", sampleDoc("c")); err != nil {
		t.Fatalf("save as for another user: %v", err)
	}
}

func TestSnapshotRetention(t *testing.T) {
	docs := newFakeDocRepo()
	snaps := &fakeSnapRepo{}
	svc := newTestService(docs, snaps, 3)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if err := svc.Save(ctx, "user-1", "essay", sampleDoc("t")); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	record, err := docs.GetByUserAndFilename(ctx, "user-1", "essay.json")
	if err != nil || record == nil {
		t.Fatalf("record lookup: %v, %v", record, err)
	}
	if got := snaps.count(record.ID); got != 3 {
		t.Fatalf("retained snapshots = %d, want 3", got)
	}

	listed, err := svc.ListSnapshots(ctx, "user-1", "essay")
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("listed snapshots = %d, want 3", len(listed))
	}
}

func TestDeleteRemovesSnapshots(t *testing.T) {
	docs := newFakeDocRepo()
	snaps := &fakeSnapRepo{}
	svc := newTestService(docs, snaps, 10)
	ctx := context.Background()

	if err := svc.Save(ctx, "user-1", "essay", sampleDoc("t")); err != nil {
		t.Fatalf("save: %v", err)
	}
	record, _ := docs.GetByUserAndFilename(ctx, "user-1", "essay.json")

	if err := svc.Delete(ctx, "user-1", "essay"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Load(ctx, "user-1", "essay"); err == nil {
		t.Fatal("deleted document must not load")
	}
	if got := snaps.count(record.ID); got != 0 {
		t.Fatalf("orphan snapshots = %d, want 0", got)
	}
	if err := svc.Delete(ctx, "user-1", "essay"); err == nil {
		t.Fatal("deleting a missing document must fail")
	}
}

func TestLoadSnapshotOwnership(t *testing.T) {
	docs := newFakeDocRepo()
	snaps := &fakeSnapRepo{}
	svc := newTestService(docs, snaps, 10)
	ctx := context.Background()

	if err := svc.Save(ctx, "owner", "essay", sampleDoc("mine")); err != nil {
		t.Fatalf("save: %v", err)
	}
	listed, err := svc.ListSnapshots(ctx, "owner", "essay")
	if err != nil || len(listed) == 0 {
		t.Fatalf("list snapshots: %v", err)
	}
	snapID := listed[0].ID

	doc, err := svc.LoadSnapshot(ctx, "owner", snapID)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if doc.Title != "mine" {
		t.Fatalf("title = %q, want mine", doc.Title)
	}

	if _, err := svc.LoadSnapshot(ctx, "intruder", snapID); err == nil {
		t.Fatal("foreign user must not load the snapshot")
	}
}

func TestCreateSnapshotNamed(t *testing.T) {
	svc := newTestService(newFakeDocRepo(), &fakeSnapRepo{}, 10)
	ctx := context.Background()

	if err := svc.Save(ctx, "user-1", "essay", sampleDoc("t")); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap, err := svc.CreateSnapshot(ctx, "user-1", "essay", "before-rewrite")
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}
	if snap.Name != "before-rewrite" {
		t.Fatalf("name = %q, want before-rewrite", snap.Name)
	}

	if _, err := svc.CreateSnapshot(ctx, "user-1", "missing", ""); err == nil {
		t.Fatal("snapshot of a missing document must fail")
	}
}

func TestDownloadReturnsRawContent(t *testing.T) {
	svc := newTestService(newFakeDocRepo(), &fakeSnapRepo{}, 10)
	ctx := context.Background()

	if err := svc.Save(ctx, "user-1", "essay", sampleDoc("raw")); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := svc.Download(ctx, "user-1", "essay")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	doc, err := parseDocument(string(raw))
	if err != nil {
		t.Fatalf("downloaded content not parseable: %v", err)
	}
	if doc.Title != "raw" {
		t.Fatalf("title = %q, want raw", doc.Title)
	}
}
