package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/school_go_server/internal/testutil"
)

func TestStudentRepository_ListByFamilyID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewStudentRepository(db)

	family := testutil.TestFamily(t, db)
	other := testutil.TestFamily(t, db)

	testutil.TestStudent(t, db, family.ID)
	testutil.TestStudent(t, db, family.ID)
	testutil.TestStudent(t, db, other.ID)

	students, err := repo.ListByFamilyID(family.ID)
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestStudentRepository_ListByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewStudentRepository(db)

	family := testutil.TestFamily(t, db)
	a := testutil.TestStudent(t, db, family.ID)
	b := testutil.TestStudent(t, db, family.ID)
	testutil.TestStudent(t, db, family.ID)

	students, err := repo.ListByIDs([]int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, students, 2)

	students, err = repo.ListByIDs([]int64{99999})
	require.NoError(t, err)
	assert.Empty(t, students)
}
