package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/testutil"
)

func TestDiscountRepository_GetByCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewDiscountRepository(db)

	created := testutil.TestDiscountCode(t, db, testutil.WithCode("FIND"))

	found, err := repo.GetByCode("FIND")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByCode("MISSING")
	assert.Error(t, err)
}

func TestDiscountRepository_ListCandidates_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewDiscountRepository(db)

	family := testutil.TestFamily(t, db)
	other := testutil.TestFamily(t, db)

	testutil.TestDiscountCode(t, db, testutil.WithCode("GLOBAL"))
	testutil.TestDiscountCode(t, db, testutil.WithCode("MINE"), testutil.WithDiscountFamily(family.ID))
	testutil.TestDiscountCode(t, db, testutil.WithCode("THEIRS"), testutil.WithDiscountFamily(other.ID))
	testutil.TestDiscountCode(t, db, testutil.WithCode("OFF"), testutil.WithInactive())

	past := time.Now().AddDate(0, -1, 0)
	testutil.TestDiscountCode(t, db, testutil.WithCode("EXPIRED"), testutil.WithValidWindow(nil, &past))

	future := time.Now().AddDate(0, 1, 0)
	testutil.TestDiscountCode(t, db, testutil.WithCode("NOTYET"), testutil.WithValidWindow(&future, nil))

	codes, err := repo.ListCandidates(family.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, codes, 2)

	got := []string{codes[0].Code, codes[1].Code}
	assert.Contains(t, got, "GLOBAL")
	assert.Contains(t, got, "MINE")
}

func TestDiscountRepository_ListCandidates_CreatedAtOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewDiscountRepository(db)

	family := testutil.TestFamily(t, db)
	testutil.TestDiscountCode(t, db, testutil.WithCode("FIRST"))
	testutil.TestDiscountCode(t, db, testutil.WithCode("SECOND"))

	codes, err := repo.ListCandidates(family.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, "FIRST", codes[0].Code)
	assert.Equal(t, "SECOND", codes[1].Code)
}

func TestDiscountRepository_UsageExhausted_FamilyScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewDiscountRepository(db)

	family := testutil.TestFamily(t, db)
	code := testutil.TestDiscountCode(t, db, testutil.WithMaxUses(2))

	exhausted, err := repo.UsageExhausted(code, family.ID, nil)
	require.NoError(t, err)
	assert.False(t, exhausted)

	p1 := testutil.TestPayment(t, db, family.ID)
	p2 := testutil.TestPayment(t, db, family.ID)
	testutil.TestDiscountUsage(t, db, code.ID, family.ID, p1.ID, nil)
	testutil.TestDiscountUsage(t, db, code.ID, family.ID, p2.ID, nil)

	exhausted, err = repo.UsageExhausted(code, family.ID, nil)
	require.NoError(t, err)
	assert.True(t, exhausted)
}

func TestDiscountRepository_UsageExhausted_Unlimited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewDiscountRepository(db)

	family := testutil.TestFamily(t, db)
	// ongoing 且无 max_uses：不限次数
	code := testutil.TestDiscountCode(t, db)

	for i := 0; i < 3; i++ {
		p := testutil.TestPayment(t, db, family.ID)
		testutil.TestDiscountUsage(t, db, code.ID, family.ID, p.ID, nil)
	}

	exhausted, err := repo.UsageExhausted(code, family.ID, nil)
	require.NoError(t, err)
	assert.False(t, exhausted)
}

func TestDiscountRepository_UsageExhausted_PerStudentWithoutStudent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewDiscountRepository(db)

	family := testutil.TestFamily(t, db)
	code := testutil.TestDiscountCode(t, db,
		testutil.WithScope(model.DiscountScopePerStudent),
		testutil.WithMaxUses(1),
	)

	// 学生维度限额但未指定学生，无法统计，按已耗尽处理
	exhausted, err := repo.UsageExhausted(code, family.ID, nil)
	require.NoError(t, err)
	assert.True(t, exhausted)
}

func TestDiscountRepository_ExistsAvailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewDiscountRepository(db)

	family := testutil.TestFamily(t, db)

	exists, err := repo.ExistsAvailable(family.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, exists)

	testutil.TestDiscountCode(t, db)

	exists, err = repo.ExistsAvailable(family.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, exists)
}
