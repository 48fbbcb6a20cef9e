package crm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/imenik/internal/db"
	"github.com/erazemk/imenik/internal/docstore"
	"github.com/erazemk/imenik/internal/model"
	"github.com/erazemk/imenik/internal/state"
)

func ptr(s string) *string { return &s }

func newSyncer(docs Documents, uid string) (*Syncer, *state.Store) {
	st := state.New()
	return New(docs, staticIdentity(uid), st, nil), st
}

func TestCreatePersonInsertsWithAssignedID(t *testing.T) {
	docs := newFakeDocs()
	docs.ids = []string{"p9"}
	s, st := newSyncer(docs, "u1")

	p := model.Person{Name: "Ana", Notes: ""}
	p.AssignCompany(&model.Company{ID: "c1", Name: "Acme"})

	created, err := s.CreatePerson(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "p9", created.ID)

	items := st.People().Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, model.Person{ID: "p9", Name: "Ana", CompanyID: ptr("c1"), CompanyName: "Acme"}, items[0])

	stored := docs.docs["users/u1/contacts"]
	require.Len(t, stored, 1)
	assert.Equal(t, map[string]any{"name": "Ana", "companyId": "c1", "companyName": "Acme", "notes": ""}, stored[0].Data)
}

func TestUpdateAndDeletePerson(t *testing.T) {
	docs := newFakeDocs()
	docs.ids = []string{"p1", "p2"}
	s, st := newSyncer(docs, "u1")
	ctx := context.Background()

	p1, err := s.CreatePerson(ctx, model.Person{Name: "Ana"})
	require.NoError(t, err)
	_, err = s.CreatePerson(ctx, model.Person{Name: "Bob"})
	require.NoError(t, err)

	p1.Notes = "call back"
	require.NoError(t, s.UpdatePerson(ctx, p1))
	assert.Equal(t, "call back", st.People().Snapshot().Items[0].Notes)

	require.NoError(t, s.DeletePerson(ctx, "p1"))
	items := st.People().Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
}

func TestRemoteFailureLeavesStateUntouched(t *testing.T) {
	docs := newFakeDocs()
	s, st := newSyncer(docs, "u1")
	ctx := context.Background()

	st.People().Insert(model.Person{ID: "p1", Name: "Ana"})
	st.Companies().Insert(model.Company{ID: "c1", Name: "Acme"})
	before := st.Snapshot()

	docs.failErr = errRemote

	_, err := s.CreatePerson(ctx, model.Person{Name: "Bob"})
	assert.ErrorIs(t, err, errRemote)
	assert.ErrorIs(t, s.UpdatePerson(ctx, model.Person{ID: "p1", Name: "Ana B"}), errRemote)
	assert.ErrorIs(t, s.DeletePerson(ctx, "p1"), errRemote)
	_, err = s.CreateCompany(ctx, model.Company{Name: "Globex"})
	assert.ErrorIs(t, err, errRemote)
	assert.ErrorIs(t, s.UpdateCompany(ctx, model.Company{ID: "c1", Name: "Acme Ltd"}), errRemote)
	assert.ErrorIs(t, s.DeleteCompany(ctx, "c1"), errRemote)

	assert.Equal(t, before, st.Snapshot())
}

func TestFetchFailureRecordsError(t *testing.T) {
	docs := newFakeDocs()
	docs.failErr = errRemote
	s, st := newSyncer(docs, "u1")
	st.Companies().Insert(model.Company{ID: "c1", Name: "Acme"})

	err := s.FetchCompanies(context.Background())
	assert.ErrorIs(t, err, errRemote)

	sl := st.Companies().Snapshot()
	assert.False(t, sl.Loading)
	assert.Equal(t, errRemote.Error(), sl.Error)
	assert.Equal(t, []model.Company{{ID: "c1", Name: "Acme"}}, sl.Items)
}

func TestFetchReplacesItems(t *testing.T) {
	docs := newFakeDocs()
	docs.docs["companies"] = []docstore.Document{
		{ID: "c1", Data: map[string]any{"name": "Acme"}},
		{ID: "c2", Data: map[string]any{"name": "Globex"}},
	}
	s, st := newSyncer(docs, "u1")
	st.Companies().Insert(model.Company{ID: "stale", Name: "Stale"})

	require.NoError(t, s.FetchCompanies(context.Background()))

	sl := st.Companies().Snapshot()
	assert.False(t, sl.Loading)
	assert.Empty(t, sl.Error)
	assert.Equal(t, []model.Company{{ID: "c1", Name: "Acme"}, {ID: "c2", Name: "Globex"}}, sl.Items)
}

func TestFetchFailsOnUndecodableDocument(t *testing.T) {
	docs := newFakeDocs()
	docs.docs["users/u1/contacts"] = []docstore.Document{
		{ID: "p1", Data: map[string]any{"name": "Ana", "companyId": nil, "companyName": "", "notes": ""}},
		{ID: "p2", Data: map[string]any{"name": "Bob", "company": "Acme"}},
	}
	s, st := newSyncer(docs, "u1")

	err := s.FetchPeople(context.Background())
	var decodeErr *model.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "p2", decodeErr.DocID)

	sl := st.People().Snapshot()
	assert.Empty(t, sl.Items)
	assert.Contains(t, sl.Error, `field "companyId"`)
}

func TestNotAuthenticated(t *testing.T) {
	docs := newFakeDocs()
	s, st := newSyncer(docs, "")
	ctx := context.Background()
	st.People().Insert(model.Person{ID: "p1", Name: "Ana"})

	err := s.FetchPeople(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	sl := st.People().Snapshot()
	assert.False(t, sl.Loading)
	assert.Equal(t, ErrNotAuthenticated.Error(), sl.Error)
	require.Len(t, sl.Items, 1)

	before := st.Snapshot()
	_, err = s.CreatePerson(ctx, model.Person{Name: "Bob"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, s.UpdatePerson(ctx, model.Person{ID: "p1", Name: "x"}), ErrNotAuthenticated)
	assert.ErrorIs(t, s.DeletePerson(ctx, "p1"), ErrNotAuthenticated)
	assert.Equal(t, before, st.Snapshot())

	assert.Empty(t, docs.callLog(), "no remote call without a user")
}

func TestDeleteDuringFetchIsNotUndone(t *testing.T) {
	docs := newFakeDocs()
	docs.docs["users/u1/contacts"] = []docstore.Document{
		{ID: "p1", Data: map[string]any{"name": "Ana", "companyId": nil, "companyName": "", "notes": ""}},
		{ID: "p2", Data: map[string]any{"name": "Bob", "companyId": nil, "companyName": "", "notes": ""}},
	}
	docs.listEntered = make(chan struct{})
	docs.listGate = make(chan struct{})
	s, st := newSyncer(docs, "u1")
	ctx := context.Background()

	fetchDone := make(chan error, 1)
	go func() { fetchDone <- s.FetchPeople(ctx) }()
	<-docs.listEntered

	deleteDone := make(chan error, 1)
	go func() { deleteDone <- s.DeletePerson(ctx, "p1") }()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"list users/u1/contacts"}, docs.callLog(), "delete waits for the fetch")
	assert.True(t, st.People().Snapshot().Loading)

	close(docs.listGate)
	require.NoError(t, <-fetchDone)
	require.NoError(t, <-deleteDone)

	items := st.People().Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
	assert.False(t, st.People().Snapshot().Loading)
}

func TestLanesAreIndependentAndCancellable(t *testing.T) {
	docs := newFakeDocs()
	docs.listEntered = make(chan struct{})
	docs.listGate = make(chan struct{})
	s, st := newSyncer(docs, "u1")

	fetchDone := make(chan error, 1)
	go func() { fetchDone <- s.FetchPeople(context.Background()) }()
	<-docs.listEntered

	// Companies use their own lane.
	_, err := s.CreateCompany(context.Background(), model.Company{Name: "Acme"})
	require.NoError(t, err)
	assert.Len(t, st.Companies().Snapshot().Items, 1)

	// A caller waiting on the busy people lane can give up.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.CreatePerson(ctx, model.Person{Name: "Ana"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, st.People().Snapshot().Items)

	close(docs.listGate)
	require.NoError(t, <-fetchDone)
}

func TestCompanyLogo(t *testing.T) {
	docs := newFakeDocs()
	s, _ := newSyncer(docs, "u1")
	ctx := context.Background()

	require.NoError(t, s.SetCompanyLogo(ctx, "c1", []byte("png")))
	data, mime, err := s.CompanyLogo(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
	assert.Equal(t, "image/png", mime)

	_, _, err = s.CompanyLogo(ctx, "c2")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestLogosUnsupported(t *testing.T) {
	s, _ := newSyncer(docstore.New(db.NewTestDB(t)), "u1")
	assert.ErrorIs(t, s.SetCompanyLogo(context.Background(), "c1", nil), ErrLogosUnsupported)
}

func TestWithSQLiteDocumentStore(t *testing.T) {
	docs := docstore.New(db.NewTestDB(t))
	s, st := newSyncer(docs, "u1")
	ctx := context.Background()

	acme, err := s.CreateCompany(ctx, model.Company{Name: "Acme"})
	require.NoError(t, err)
	globex, err := s.CreateCompany(ctx, model.Company{Name: "Globex"})
	require.NoError(t, err)

	people := []model.Person{{Name: "Ana"}, {Name: "Bob"}, {Name: "Cene"}}
	people[0].AssignCompany(&acme)
	people[2].AssignCompany(&globex)
	for _, p := range people {
		_, err := s.CreatePerson(ctx, p)
		require.NoError(t, err)
	}

	// A fresh store sees the same data after fetching.
	fresh := state.New()
	s2 := New(docs, staticIdentity("u1"), fresh, nil)
	require.NoError(t, s2.FetchPeople(ctx))
	require.NoError(t, s2.FetchCompanies(ctx))

	assert.Equal(t, st.Snapshot(), fresh.Snapshot())

	atAcme := state.PeopleByCompany(fresh.Snapshot().People.Items, acme.ID)
	require.Len(t, atAcme, 1)
	assert.Equal(t, "Ana", atAcme[0].Name)

	// Another user has no contacts.
	s3 := New(docs, staticIdentity("u2"), state.New(), nil)
	require.NoError(t, s3.FetchPeople(ctx))

	// Deleting a company leaves its people pointing at it.
	require.NoError(t, s.DeleteCompany(ctx, acme.ID))
	require.NoError(t, s2.FetchPeople(ctx))
	assert.Equal(t, acme.ID, *fresh.Snapshot().People.Items[0].CompanyID)
	assert.ErrorIs(t, s.UpdateCompany(ctx, model.Company{ID: acme.ID, Name: "x"}), docstore.ErrNotFound)
}
