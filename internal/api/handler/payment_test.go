package handler

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/internal/api/middleware"
	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/pkg/response"
	"github.com/qs3c/school_go_server/internal/repository"
	"github.com/qs3c/school_go_server/internal/service"
	"github.com/qs3c/school_go_server/internal/testutil"
)

func setupPaymentRouter(t *testing.T) (*gin.Engine, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testCfg()
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	discountService := service.NewDiscountService(discountRepo, cfg)
	paymentService := service.NewPaymentService(db, paymentRepo, familyRepo, studentRepo, discountRepo, discountService, cfg)
	h := NewPaymentHandler(paymentService, userRepo)

	router := gin.New()
	router.POST("/payments/gateway/callback", h.GatewayCallback)

	authed := router.Group("")
	authed.Use(middleware.Auth(testSecret))
	authed.POST("/payments", h.Start)
	authed.GET("/payments/:id", h.Get)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return router, db, cleanup
}

func TestPaymentHandler_Start_Success(t *testing.T) {
	router, db, cleanup := setupPaymentRouter(t)
	defer cleanup()

	family := testutil.TestFamily(t, db)
	student := testutil.TestStudent(t, db, family.ID)
	user := testutil.TestUser(t, db, testutil.WithUserFamily(family.ID))

	req := dto.StartPaymentRequest{
		Type:          model.PaymentTypeMonthlyGroup,
		StudentIDs:    []int64{student.ID},
		SubtotalCents: 12000,
	}
	w := performRequest(router, "POST", "/payments", req, authHeaders(t, user.ID))
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data, _ := json.Marshal(resp.Data)
	var created dto.PaymentCreated
	require.NoError(t, json.Unmarshal(data, &created))
	assert.NotZero(t, created.PaymentID)
	assert.Equal(t, model.PaymentStatusPending, created.Status)
}

func TestPaymentHandler_Start_DuplicateWarning(t *testing.T) {
	router, db, cleanup := setupPaymentRouter(t)
	defer cleanup()

	family := testutil.TestFamily(t, db)
	student := testutil.TestStudent(t, db, family.ID)
	user := testutil.TestUser(t, db, testutil.WithUserFamily(family.ID))
	existing := testutil.TestPayment(t, db, family.ID,
		testutil.WithPaymentType(model.PaymentTypeMonthlyGroup),
		testutil.WithStudents(student),
	)

	req := dto.StartPaymentRequest{
		Type:          model.PaymentTypeMonthlyGroup,
		StudentIDs:    []int64{student.ID},
		SubtotalCents: 12000,
	}
	w := performRequest(router, "POST", "/payments", req, authHeaders(t, user.ID))
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeDuplicatePending, resp.Code)

	data, _ := json.Marshal(resp.Data)
	var dup dto.PendingDuplicate
	require.NoError(t, json.Unmarshal(data, &dup))
	assert.Equal(t, existing.ID, dup.PaymentID)

	// force=true 跳过拦截
	req.Force = true
	w = performRequest(router, "POST", "/payments", req, authHeaders(t, user.ID))
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestPaymentHandler_Start_InvalidDiscount(t *testing.T) {
	router, db, cleanup := setupPaymentRouter(t)
	defer cleanup()

	family := testutil.TestFamily(t, db)
	student := testutil.TestStudent(t, db, family.ID)
	user := testutil.TestUser(t, db, testutil.WithUserFamily(family.ID))

	code := "GHOST"
	req := dto.StartPaymentRequest{
		Type:          model.PaymentTypeMonthlyGroup,
		StudentIDs:    []int64{student.ID},
		SubtotalCents: 12000,
		DiscountCode:  &code,
	}
	w := performRequest(router, "POST", "/payments", req, authHeaders(t, user.ID))
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeDiscountInvalid, resp.Code)
}

func TestPaymentHandler_Get_OwnPayment(t *testing.T) {
	router, db, cleanup := setupPaymentRouter(t)
	defer cleanup()

	family := testutil.TestFamily(t, db)
	user := testutil.TestUser(t, db, testutil.WithUserFamily(family.ID))
	payment := testutil.TestPayment(t, db, family.ID)

	w := performRequest(router, "GET", fmt.Sprintf("/payments/%d", payment.ID), nil, authHeaders(t, user.ID))
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestPaymentHandler_Get_OtherFamilyForbidden(t *testing.T) {
	router, db, cleanup := setupPaymentRouter(t)
	defer cleanup()

	family := testutil.TestFamily(t, db)
	other := testutil.TestFamily(t, db)
	user := testutil.TestUser(t, db, testutil.WithUserFamily(family.ID))
	payment := testutil.TestPayment(t, db, other.ID)

	w := performRequest(router, "GET", fmt.Sprintf("/payments/%d", payment.ID), nil, authHeaders(t, user.ID))
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestPaymentHandler_GatewayCallback_Success(t *testing.T) {
	router, db, cleanup := setupPaymentRouter(t)
	defer cleanup()

	family := testutil.TestFamily(t, db)
	payment := testutil.TestPayment(t, db, family.ID)

	req := dto.GatewayCallbackRequest{
		PaymentID:    payment.ID,
		GatewayTxnID: "txn_abc",
		Succeeded:    true,
	}
	w := performRequest(router, "POST", "/payments/gateway/callback", req, nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var updated model.Payment
	require.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, model.PaymentStatusSucceeded, updated.Status)
}

func TestPaymentHandler_GatewayCallback_Replay(t *testing.T) {
	router, db, cleanup := setupPaymentRouter(t)
	defer cleanup()

	family := testutil.TestFamily(t, db)
	payment := testutil.TestPayment(t, db, family.ID)

	req := dto.GatewayCallbackRequest{
		PaymentID:    payment.ID,
		GatewayTxnID: "txn_abc",
		Succeeded:    true,
	}
	w := performRequest(router, "POST", "/payments/gateway/callback", req, nil)
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	// 重放同一回调：终态不可变更
	w = performRequest(router, "POST", "/payments/gateway/callback", req, nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}
