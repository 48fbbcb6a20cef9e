package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/imenik/internal/db"
)

func TestAddAndList(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx := context.Background()

	first, err := store.Add(ctx, Companies, map[string]any{"name": "Acme"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := store.Add(ctx, Companies, map[string]any{"name": "Globex"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first == "" || first == second {
		t.Fatalf("expected distinct ids, got %q and %q", first, second)
	}

	docs, err := store.List(ctx, Companies)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != first || docs[1].ID != second {
		t.Errorf("expected insertion order [%s %s], got [%s %s]", first, second, docs[0].ID, docs[1].ID)
	}
	if docs[0].Data["name"] != "Acme" {
		t.Errorf("expected name 'Acme', got %v", docs[0].Data["name"])
	}
}

func TestListEmptyCollection(t *testing.T) {
	store := New(db.NewTestDB(t))

	docs, err := store.List(context.Background(), Contacts("nobody"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", docs)
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx := context.Background()

	store.Add(ctx, Contacts("u1"), map[string]any{"name": "Ana"})
	store.Add(ctx, Contacts("u2"), map[string]any{"name": "Bor"})

	docs, _ := store.List(ctx, Contacts("u1"))
	if len(docs) != 1 || docs[0].Data["name"] != "Ana" {
		t.Errorf("expected only u1's contact, got %#v", docs)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx := context.Background()

	id, _ := store.Add(ctx, Contacts("u1"), map[string]any{
		"name":        "Ana",
		"companyId":   "c1",
		"companyName": "Acme",
		"notes":       "",
	})

	err := store.Update(ctx, Contacts("u1"), id, map[string]any{"notes": "met at expo", "companyId": nil})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc, err := store.Get(ctx, Contacts("u1"), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Data["name"] != "Ana" || doc.Data["companyName"] != "Acme" {
		t.Errorf("untouched fields changed: %#v", doc.Data)
	}
	if doc.Data["notes"] != "met at expo" {
		t.Errorf("expected notes updated, got %v", doc.Data["notes"])
	}
	if v, ok := doc.Data["companyId"]; !ok || v != nil {
		t.Errorf("expected companyId present and null, got %v (present=%v)", v, ok)
	}
}

func TestUpdateMissingDocument(t *testing.T) {
	store := New(db.NewTestDB(t))

	err := store.Update(context.Background(), Companies, "missing", map[string]any{"name": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx := context.Background()

	id, _ := store.Add(ctx, Companies, map[string]any{"name": "Acme"})

	if err := store.Delete(ctx, Companies, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, Companies, id); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	if _, err := store.Get(ctx, Companies, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestInvalidCollection(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx := context.Background()

	for _, path := range []string{"", "users/u1", "users//contacts", "companies/"} {
		if _, err := store.List(ctx, path); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("List(%q): expected ErrInvalidPath, got %v", path, err)
		}
	}
}

func TestAttachments(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx := context.Background()

	id, _ := store.Add(ctx, Companies, map[string]any{"name": "Acme"})

	if err := store.SetAttachment(ctx, Companies, "missing", "logo", []byte{1}, "image/jpeg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing document, got %v", err)
	}

	if err := store.SetAttachment(ctx, Companies, id, "logo", []byte{1, 2}, "image/jpeg"); err != nil {
		t.Fatalf("SetAttachment: %v", err)
	}
	if err := store.SetAttachment(ctx, Companies, id, "logo", []byte{3}, "image/jpeg"); err != nil {
		t.Fatalf("SetAttachment replace: %v", err)
	}

	data, mime, err := store.Attachment(ctx, Companies, id, "logo")
	if err != nil {
		t.Fatalf("Attachment: %v", err)
	}
	if len(data) != 1 || data[0] != 3 || mime != "image/jpeg" {
		t.Errorf("unexpected attachment %v %q", data, mime)
	}

	store.Delete(ctx, Companies, id)
	if _, _, err := store.Attachment(ctx, Companies, id, "logo"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected attachment removed with document, got %v", err)
	}
}
