package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"rcm/src/db"
	"rcm/src/middlewares"
	"rcm/src/models"
	"rcm/src/services"
	"rcm/src/stor"
	"rcm/src/types"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testJWTKey = []byte(os.Getenv("JWT_SECRET"))

type fakeFileStore struct {
	uploads int
}

func (f *fakeFileStore) Upload(ctx context.Context, name string, body io.Reader, dir string, userID uint) (*services.StoredFile, error) {
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}
	f.uploads++
	return &services.StoredFile{
		FileName: name,
		FileURL:  fmt.Sprintf("https://files.local/%s/%d/%s", dir, userID, name),
	}, nil
}

type TestSuite struct {
	suite.Suite
	DB     *gorm.DB
	Router *gin.Engine
	Files  *fakeFileStore

	Admin    models.User
	Security models.User
	Resident models.User
	Other    models.User

	AdminToken    string
	SecurityToken string
	ResidentToken string
	OtherToken    string

	Community models.Community
	NoPack    models.Community
	NoTpl     models.Community
	Units     map[string]models.Unit
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("futuredate", futureDateValidatorFunc)
	}

	d, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening test database: %s", err.Error())
	}
	db.NewDB(d)
	s.DB = d

	err = d.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.Building{},
		&models.Unit{},
		&models.UnitBooking{},
		&models.MoveInTemplate{},
		&models.MoveInRequest{},
		&models.MoveInDetails{},
		&models.MoveOutRequest{},
		&models.MoveOutDetails{},
		&models.RenewalRequest{},
		&models.RenewalDetails{},
		&models.RequestDocument{},
		&models.RequestLog{},
		&models.Notification{},
		&models.JobTask{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	s.seed()

	stors := stor.NewGormStors(d)
	s.Files = &fakeFileStore{}
	moveInSvc := services.NewMoveInService(stors, nil, nil, nil)
	moveOutSvc := services.NewMoveOutService(stors, nil)
	renewalSvc := services.NewRenewalService(stors, nil)
	docSvc := services.NewDocumentService(stors, s.Files)

	router := setupRouter()
	admin := router.Group(apiPrefix + "/admin")
	admin.Use(middlewares.AuthMiddleware)
	admin.Use(middlewares.AdminMiddleware)
	{
		moveInAdminHandlers(admin, moveInSvc, docSvc)
		moveOutAdminHandlers(admin, moveOutSvc, docSvc)
		renewalAdminHandlers(admin, renewalSvc, docSvc)
	}
	mobile := apiv1Group(router)
	mobile.Use(middlewares.AuthMiddleware)
	{
		moveInMobileHandlers(mobile, moveInSvc, docSvc)
		moveOutMobileHandlers(mobile, moveOutSvc, docSvc)
		renewalMobileHandlers(mobile, renewalSvc, docSvc)
	}
	s.Router = router
}

func (s *TestSuite) seed() {
	s.Admin = models.User{Name: "Admin", Email: "admin@example.com", Role: types.ROLE_COMMUNITY_ADMIN, UID: "admin-uid"}
	s.Security = models.User{Name: "Guard", Email: "guard@example.com", Role: types.ROLE_SECURITY, UID: "guard-uid"}
	s.Resident = models.User{Name: "Resident", Email: "resident@example.com", Role: types.ROLE_RESIDENT, UID: "resident-uid"}
	s.Other = models.User{Name: "Other", Email: "other@example.com", Role: types.ROLE_RESIDENT, UID: "other-uid"}
	for _, u := range []*models.User{&s.Admin, &s.Security, &s.Resident, &s.Other} {
		if err := s.DB.Create(u).Error; err != nil {
			log.Fatalf("error seeding user: %s", err.Error())
		}
	}
	s.AdminToken = s.generateJWT(s.Admin)
	s.SecurityToken = s.generateJWT(s.Security)
	s.ResidentToken = s.generateJWT(s.Resident)
	s.OtherToken = s.generateJWT(s.Other)

	s.Community = models.Community{Name: "Palm Gardens", Slug: "palm-gardens"}
	s.NoPack = models.Community{Name: "Cedar Heights", Slug: "cedar-heights"}
	s.NoTpl = models.Community{Name: "Oak View", Slug: "oak-view"}
	for _, c := range []*models.Community{&s.Community, &s.NoPack, &s.NoTpl} {
		if err := s.DB.Create(c).Error; err != nil {
			log.Fatalf("error seeding community: %s", err.Error())
		}
	}

	building := models.Building{CommunityID: s.Community.ID, Name: "Block A"}
	if err := s.DB.Create(&building).Error; err != nil {
		log.Fatalf("error seeding building: %s", err.Error())
	}

	templates := []models.MoveInTemplate{
		{CommunityID: s.Community.ID, Name: "Palm Gardens MIP", HasWelcomePack: true, IsActive: true},
		{CommunityID: s.NoPack.ID, Name: "Cedar Heights MIP", HasWelcomePack: false, IsActive: true},
	}
	for i := range templates {
		if err := s.DB.Create(&templates[i]).Error; err != nil {
			log.Fatalf("error seeding template: %s", err.Error())
		}
	}

	s.Units = map[string]models.Unit{}
	unitCommunities := map[string]uint{
		"A-101": s.Community.ID,
		"A-102": s.Community.ID,
		"A-103": s.Community.ID,
		"A-104": s.Community.ID,
		"A-105": s.Community.ID,
		"A-106": s.Community.ID,
		"A-107": s.Community.ID,
		"A-108": s.Community.ID,
		"A-109": s.Community.ID,
		"A-110": s.Community.ID,
		"B-201": s.NoPack.ID,
		"C-301": s.NoTpl.ID,
	}
	for number, communityID := range unitCommunities {
		unit := models.Unit{BuildingID: building.ID, CommunityID: communityID, UnitNumber: number, UnitType: "apartment"}
		if err := s.DB.Create(&unit).Error; err != nil {
			log.Fatalf("error seeding unit: %s", err.Error())
		}
		s.Units[number] = unit
	}

	// Active occupancy linkage used by the move-out and renewal flows.
	for _, number := range []string{"A-104", "A-105", "A-106", "A-109"} {
		booking := models.UnitBooking{UnitID: s.Units[number].ID, UserID: s.Resident.ID, Status: types.UNIT_BOOKING_ACTIVE}
		if err := s.DB.Create(&booking).Error; err != nil {
			log.Fatalf("error seeding booking: %s", err.Error())
		}
	}
}

func (s *TestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

func (s *TestSuite) generateJWT(user models.User) string {
	claims := types.Claims{
		Username: user.Email,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testJWTKey)
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	return signed
}

func (s *TestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		rbytes, err := json.Marshal(body)
		assert.Nil(s.T(), err)
		reader = strings.NewReader(string(rbytes))
	}
	req, err := http.NewRequest(method, path, reader)
	assert.Nil(s.T(), err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) doMultipart(path, token string, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, filename := range fields {
		part, err := mw.CreateFormFile(field, filename)
		assert.Nil(s.T(), err)
		_, err = part.Write([]byte("file-content"))
		assert.Nil(s.T(), err)
	}
	assert.Nil(s.T(), mw.Close())
	req, err := http.NewRequest("POST", path, &buf)
	assert.Nil(s.T(), err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(types.DATE_PARSE_FORMAT)
}

func moveInBody(unitID uint, days int) map[string]any {
	return map[string]any{
		"unitId":     unitID,
		"moveInDate": futureDate(days),
		"details": map[string]any{
			"adults":   2,
			"children": 1,
		},
	}
}

func (s *TestSuite) seedMoveIn(unit models.Unit, user models.User, status types.RequestStatus, approvedAt *time.Time) models.MoveInRequest {
	moveInDate := time.Now().AddDate(0, 0, 7)
	req := models.MoveInRequest{
		RequestNumber: fmt.Sprintf("MIN-%s-%d", unit.UnitNumber, time.Now().UnixNano()),
		RequestType:   types.TYPE_OWNER,
		Status:        status,
		UserID:        user.ID,
		UnitID:        unit.ID,
		MoveInDate:    &moveInDate,
		ApprovedAt:    approvedAt,
		AuditColumns:  types.AuditColumns{CreatedBy: user.ID, UpdatedBy: user.ID, IsActive: true},
	}
	if err := s.DB.Create(&req).Error; err != nil {
		log.Fatalf("error seeding move-in request: %s", err.Error())
	}
	details := models.MoveInDetails{MoveInRequestID: req.ID, Adults: 2}
	if err := s.DB.Create(&details).Error; err != nil {
		log.Fatalf("error seeding move-in details: %s", err.Error())
	}
	return req
}

func (s *TestSuite) seedRenewal(unit models.Unit, user models.User, parentID uint, status types.RequestStatus) models.RenewalRequest {
	req := models.RenewalRequest{
		RequestNumber:   fmt.Sprintf("REN-%d", time.Now().UnixNano()),
		RequestType:     types.TYPE_TENANT,
		Status:          status,
		UserID:          user.ID,
		UnitID:          unit.ID,
		MoveInRequestID: parentID,
		AuditColumns:    types.AuditColumns{CreatedBy: user.ID, UpdatedBy: user.ID, IsActive: true},
	}
	if err := s.DB.Create(&req).Error; err != nil {
		log.Fatalf("error seeding renewal request: %s", err.Error())
	}
	leaseStart := time.Now().AddDate(0, 0, 1)
	details := models.RenewalDetails{RenewalRequestID: req.ID, LeaseStartDate: &leaseStart}
	if err := s.DB.Create(&details).Error; err != nil {
		log.Fatalf("error seeding renewal details: %s", err.Error())
	}
	return req
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestAuthGuards() {
	s.Run("Should reject a request without a token", func() {
		w := s.do("GET", "/api/v1/admin/move-in/request-list", "", nil)
		assert.Equal(s.T(), 401, w.Code)
		assert.Equal(s.T(), "RCM-0002", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should keep residents off the admin surface", func() {
		w := s.do("GET", "/api/v1/admin/move-in/request-list", s.ResidentToken, nil)
		assert.Equal(s.T(), 403, w.Code)
		assert.Equal(s.T(), "RCM-0003", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should let security staff list requests", func() {
		w := s.do("GET", "/api/v1/admin/move-in/request-list", s.SecurityToken, nil)
		assert.Equal(s.T(), 200, w.Code)
	})

	s.Run("Should resolve a token keyed by email", func() {
		claims := types.Claims{
			Username: s.Admin.Email,
			Role:     string(s.Admin.Role),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   s.Admin.Email,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString(testJWTKey)
		assert.Nil(s.T(), err)

		w := s.do("GET", "/api/v1/admin/move-in/request-list", signed, nil)
		assert.Equal(s.T(), 200, w.Code)
	})
}

func (s *TestSuite) TestMoveInCreate() {
	unit := s.Units["A-101"]

	var requestID int64
	s.Run("Should auto-approve an owner move-in", func() {
		w := s.do("POST", "/api/v1/admin/move-in/owner", s.AdminToken, moveInBody(unit.ID, 7))
		assert.Equal(s.T(), 201, w.Code)

		body := w.Body.String()
		assert.Equal(s.T(), "approved", gjson.Get(body, "data.status").String())
		assert.Equal(s.T(), "OWNER", gjson.Get(body, "data.request_type").String())
		assert.True(s.T(), gjson.Get(body, "data.is_auto_approved").Bool())
		number := gjson.Get(body, "data.request_number").String()
		assert.True(s.T(), strings.HasPrefix(number, "MIN-A-101-"), "unexpected request number %s", number)
		requestID = gjson.Get(body, "data.id").Int()
		assert.Greater(s.T(), requestID, int64(0))
	})

	s.Run("Should have written exactly one approved log entry", func() {
		w := s.do("GET", fmt.Sprintf("/api/v1/admin/move-in/request/%d/logs", requestID), s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)

		body := w.Body.String()
		entries := gjson.Get(body, "data").Array()
		assert.Len(s.T(), entries, 1)
		assert.Equal(s.T(), "approved", entries[0].Get("status").String())
		assert.Equal(s.T(), "SYSTEM", entries[0].Get("actor_type").String())
	})

	s.Run("Should reject a second request for the same unit", func() {
		w := s.do("POST", "/api/v1/admin/move-in/tenant", s.AdminToken, moveInBody(unit.ID, 7))
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1001", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should reject a move-in date in the past", func() {
		w := s.do("POST", "/api/v1/admin/move-in/owner", s.AdminToken, moveInBody(s.Units["A-102"].ID, -7))
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "RCM-0001", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should reject a community without a welcome pack", func() {
		w := s.do("POST", "/api/v1/admin/move-in/owner", s.AdminToken, moveInBody(s.Units["B-201"].ID, 7))
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1004", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should reject a community without a template", func() {
		w := s.do("POST", "/api/v1/admin/move-in/owner", s.AdminToken, moveInBody(s.Units["C-301"].ID, 7))
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1003", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should answer 404 for an unknown unit", func() {
		w := s.do("POST", "/api/v1/admin/move-in/owner", s.AdminToken, moveInBody(99999, 7))
		assert.Equal(s.T(), 404, w.Code)
		assert.Equal(s.T(), "RCM-0004", gjson.Get(w.Body.String(), "code").String())
	})
}

func (s *TestSuite) TestMoveInTransitions() {
	unit := s.Units["A-102"]
	req := s.seedMoveIn(unit, s.Resident, types.REQUEST_OPEN, nil)

	s.Run("Should reject an RFI without comments", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/rfi", req.ID), s.AdminToken, map[string]any{"comments": ""})
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1006", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should mark an open request rfi-pending", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/rfi", req.ID), s.AdminToken, map[string]any{"comments": "need the tenancy contract"})
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "rfi-pending", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should move to rfi-submitted when the resident answers", func() {
		body := map[string]any{"details": map[string]any{"adults": 3}}
		w := s.do("PUT", fmt.Sprintf("/api/v1/move-in/request/%d", req.ID), s.ResidentToken, body)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "rfi-submitted", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should approve the answered request", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/approve", req.ID), s.AdminToken, map[string]any{"comments": "documents verified"})
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "approved", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should reject approving an approved request", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/approve", req.ID), s.AdminToken, map[string]any{})
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1009", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should reject cancelling without remarks", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/cancel", req.ID), s.AdminToken, map[string]any{"remarks": ""})
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1007", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should reject closing without an actual date", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/close", req.ID), s.AdminToken, map[string]any{"closureRemarks": "done"})
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1010", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should close the approved request", func() {
		body := map[string]any{"actualMoveInDate": futureDate(0), "closureRemarks": "keys handed over"}
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/close", req.ID), s.AdminToken, body)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "closed", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should reject closing twice", func() {
		body := map[string]any{"actualMoveInDate": futureDate(0), "closureRemarks": "again"}
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/close", req.ID), s.AdminToken, body)
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1009", gjson.Get(w.Body.String(), "code").String())
	})
}

func (s *TestSuite) TestMoveInWindows() {
	s.Run("Should reject approving a move-in date beyond the window", func() {
		unit := s.Units["A-103"]
		farDate := time.Now().AddDate(0, 0, 60)
		req := s.seedMoveIn(unit, s.Resident, types.REQUEST_OPEN, nil)
		s.DB.Model(&models.MoveInRequest{}).Where("id = ?", req.ID).Update("move_in_date", farDate)

		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/approve", req.ID), s.AdminToken, map[string]any{})
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1005", gjson.Get(w.Body.String(), "code").String())

		s.DB.Model(&models.MoveInRequest{}).Where("id = ?", req.ID).Update("status", types.REQUEST_CANCELLED)
	})

	s.Run("Should reject closing a lapsed approval", func() {
		unit := s.Units["A-103"]
		stale := time.Now().AddDate(0, 0, -31)
		req := s.seedMoveIn(unit, s.Resident, types.REQUEST_APPROVED, &stale)

		body := map[string]any{"actualMoveInDate": futureDate(0), "closureRemarks": "late"}
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-in/request/%d/close", req.ID), s.AdminToken, body)
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1008", gjson.Get(w.Body.String(), "code").String())

		s.DB.Model(&models.MoveInRequest{}).Where("id = ?", req.ID).Update("status", types.REQUEST_CANCELLED)
	})
}

func (s *TestSuite) TestMoveOutFlow() {
	s.Run("Should reject a move-out without an active booking", func() {
		body := map[string]any{"unitId": s.Units["A-101"].ID, "moveOutDate": futureDate(14)}
		w := s.do("POST", "/api/v1/move-out/request", s.OtherToken, body)
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MOV-2002", gjson.Get(w.Body.String(), "code").String())
	})

	unit := s.Units["A-104"]
	var requestID int64
	s.Run("Should open a move-out for a linked resident", func() {
		body := map[string]any{"unitId": unit.ID, "moveOutDate": futureDate(14), "reason": "relocating"}
		w := s.do("POST", "/api/v1/move-out/request", s.ResidentToken, body)
		assert.Equal(s.T(), 201, w.Code)

		rbody := w.Body.String()
		assert.Equal(s.T(), "open", gjson.Get(rbody, "data.status").String())
		assert.Equal(s.T(), "RESIDENT", gjson.Get(rbody, "data.request_type").String())
		number := gjson.Get(rbody, "data.request_number").String()
		assert.True(s.T(), strings.HasPrefix(number, "MOV-A-104-"), "unexpected request number %s", number)
		requestID = gjson.Get(rbody, "data.id").Int()
	})

	s.Run("Should approve and close the move-out", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/move-out/request/%d/approve", requestID), s.AdminToken, map[string]any{})
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "approved", gjson.Get(w.Body.String(), "data.status").String())

		body := map[string]any{"actualMoveOutDate": futureDate(0), "closureRemarks": "unit vacated"}
		w = s.do("PUT", fmt.Sprintf("/api/v1/admin/move-out/request/%d/close", requestID), s.AdminToken, body)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "closed", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should land on user-cancelled when the resident cancels", func() {
		body := map[string]any{"unitId": unit.ID, "moveOutDate": futureDate(21)}
		w := s.do("POST", "/api/v1/move-out/request", s.ResidentToken, body)
		assert.Equal(s.T(), 201, w.Code)
		id := gjson.Get(w.Body.String(), "data.id").Int()

		cancel := map[string]any{"remarks": "changed my mind"}
		w = s.do("PUT", fmt.Sprintf("/api/v1/move-out/request/%d/cancel", id), s.ResidentToken, cancel)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "user-cancelled", gjson.Get(w.Body.String(), "data.status").String())
	})
}

func (s *TestSuite) TestRenewalFlow() {
	unit := s.Units["A-105"]
	parent := s.seedMoveIn(unit, s.Resident, types.REQUEST_CLOSED, nil)

	var requestID int64
	s.Run("Should auto-approve a renewal and inherit the parent type", func() {
		body := map[string]any{
			"unitId":          unit.ID,
			"moveInRequestId": parent.ID,
			"details": map[string]any{
				"leaseStartDate": futureDate(1),
				"leaseEndDate":   futureDate(366),
			},
		}
		w := s.do("POST", "/api/v1/renewal/request", s.ResidentToken, body)
		assert.Equal(s.T(), 201, w.Code)

		rbody := w.Body.String()
		assert.Equal(s.T(), "approved", gjson.Get(rbody, "data.status").String())
		assert.Equal(s.T(), "OWNER", gjson.Get(rbody, "data.request_type").String())
		assert.True(s.T(), gjson.Get(rbody, "data.is_auto_approved").Bool())
		number := gjson.Get(rbody, "data.request_number").String()
		assert.True(s.T(), strings.HasPrefix(number, "REN-"), "unexpected request number %s", number)
		requestID = gjson.Get(rbody, "data.id").Int()
	})

	s.Run("Should reject a duplicate renewal for the same unit", func() {
		body := map[string]any{
			"unitId":          unit.ID,
			"moveInRequestId": parent.ID,
			"details": map[string]any{
				"leaseStartDate": futureDate(1),
				"leaseEndDate":   futureDate(366),
			},
		}
		w := s.do("POST", "/api/v1/renewal/request", s.ResidentToken, body)
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "REN-3002", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should reject cancelling without a reason", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/renewal/request/%d/cancel", requestID), s.ResidentToken, map[string]any{"remarks": ""})
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "REN-3004", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should let the resident cancel an approved renewal", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/renewal/request/%d/cancel", requestID), s.ResidentToken, map[string]any{"remarks": "not renewing after all"})
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "user-cancelled", gjson.Get(w.Body.String(), "data.status").String())
	})
}

func (s *TestSuite) TestRenewalMoveOutConflict() {
	unit := s.Units["A-109"]
	parent := s.seedMoveIn(unit, s.Resident, types.REQUEST_CLOSED, nil)

	body := map[string]any{"unitId": unit.ID, "moveOutDate": futureDate(14), "reason": "lease ending"}
	w := s.do("POST", "/api/v1/move-out/request", s.ResidentToken, body)
	assert.Equal(s.T(), 201, w.Code)

	s.Run("Should reject a renewal while a move-out is in flight", func() {
		body := map[string]any{
			"unitId":          unit.ID,
			"moveInRequestId": parent.ID,
			"details": map[string]any{
				"leaseStartDate": futureDate(1),
				"leaseEndDate":   futureDate(366),
			},
		}
		w := s.do("POST", "/api/v1/renewal/request", s.ResidentToken, body)
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "REN-3003", gjson.Get(w.Body.String(), "code").String())
	})
}

func (s *TestSuite) TestRenewalTransitions() {
	unit := s.Units["A-110"]
	parent := s.seedMoveIn(unit, s.Resident, types.REQUEST_CLOSED, nil)
	req := s.seedRenewal(unit, s.Resident, parent.ID, types.REQUEST_OPEN)

	s.Run("Should reject an RFI without comments", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/renewal/request/%d/rfi", req.ID), s.AdminToken, map[string]any{"comments": ""})
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "MIN-1006", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should mark an open renewal rfi-pending", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/renewal/request/%d/rfi", req.ID), s.AdminToken, map[string]any{"comments": "need the signed lease"})
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "rfi-pending", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should move to rfi-submitted when the resident answers", func() {
		body := map[string]any{
			"details": map[string]any{
				"leaseStartDate": futureDate(1),
				"leaseEndDate":   futureDate(366),
			},
		}
		w := s.do("PUT", fmt.Sprintf("/api/v1/renewal/request/%d", req.ID), s.ResidentToken, body)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "rfi-submitted", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should approve the answered renewal", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/renewal/request/%d/approve", req.ID), s.AdminToken, map[string]any{"comments": "lease verified"})
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), "approved", gjson.Get(w.Body.String(), "data.status").String())
	})

	s.Run("Should reject approving an approved renewal", func() {
		w := s.do("PUT", fmt.Sprintf("/api/v1/admin/renewal/request/%d/approve", req.ID), s.AdminToken, map[string]any{})
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "REN-3001", gjson.Get(w.Body.String(), "code").String())
	})

	s.Run("Should reject updating an approved renewal", func() {
		body := map[string]any{
			"details": map[string]any{
				"leaseStartDate": futureDate(2),
				"leaseEndDate":   futureDate(367),
			},
		}
		w := s.do("PUT", fmt.Sprintf("/api/v1/renewal/request/%d", req.ID), s.ResidentToken, body)
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "REN-3001", gjson.Get(w.Body.String(), "code").String())
	})
}

func (s *TestSuite) TestSecurityListing() {
	unit := s.Units["A-108"]
	req := s.seedMoveIn(unit, s.Other, types.REQUEST_OPEN, nil)

	s.Run("Should show admins the open request", func() {
		w := s.do("GET", "/api/v1/admin/move-in/request-list", s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)

		numbers := []string{}
		for _, item := range gjson.Get(w.Body.String(), "data").Array() {
			numbers = append(numbers, item.Get("request_number").String())
		}
		assert.Contains(s.T(), numbers, req.RequestNumber)
	})

	s.Run("Should keep security staff to approved and closed requests", func() {
		w := s.do("GET", "/api/v1/admin/move-in/request-list", s.SecurityToken, nil)
		assert.Equal(s.T(), 200, w.Code)

		items := gjson.Get(w.Body.String(), "data").Array()
		assert.NotEmpty(s.T(), items)
		for _, item := range items {
			status := item.Get("status").String()
			assert.Contains(s.T(), []string{"approved", "closed"}, status)
			assert.NotEqual(s.T(), req.RequestNumber, item.Get("request_number").String())
		}
	})

	s.Run("Should ignore a security filter asking for open requests", func() {
		w := s.do("GET", "/api/v1/admin/move-in/request-list?status=open", s.SecurityToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		for _, item := range gjson.Get(w.Body.String(), "data").Array() {
			assert.Contains(s.T(), []string{"approved", "closed"}, item.Get("status").String())
		}
	})
}

func (s *TestSuite) TestRenewalDocuments() {
	unit := s.Units["A-106"]
	parent := s.seedMoveIn(unit, s.Resident, types.REQUEST_CLOSED, nil)
	s.DB.Model(&models.MoveInRequest{}).Where("id = ?", parent.ID).Update("request_type", types.TYPE_TENANT)

	body := map[string]any{
		"unitId":          unit.ID,
		"moveInRequestId": parent.ID,
		"details": map[string]any{
			"leaseStartDate": futureDate(1),
			"leaseEndDate":   futureDate(366),
		},
	}
	w := s.do("POST", "/api/v1/renewal/request", s.ResidentToken, body)
	assert.Equal(s.T(), 201, w.Code)
	requestID := gjson.Get(w.Body.String(), "data.id").Int()

	path := fmt.Sprintf("/api/v1/renewal/request/%d/documents", requestID)

	s.Run("Should reject the whole batch when one slot is not allowed", func() {
		before := s.Files.uploads
		w := s.doMultipart(path, s.ResidentToken, map[string]string{
			"emirates-id-front": "eid-front.jpg",
			"title-deed":        "deed.pdf",
		})
		assert.Equal(s.T(), 400, w.Code)
		assert.Equal(s.T(), "DOC-4001", gjson.Get(w.Body.String(), "code").String())
		assert.Equal(s.T(), before, s.Files.uploads, "no file should reach storage")

		w = s.do("GET", path, s.ResidentToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.Len(s.T(), gjson.Get(w.Body.String(), "data").Array(), 0)
	})

	s.Run("Should store an allowed batch", func() {
		w := s.doMultipart(path, s.ResidentToken, map[string]string{
			"emirates-id-front": "eid-front.jpg",
		})
		assert.Equal(s.T(), 201, w.Code)

		w = s.do("GET", path, s.ResidentToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		docs := gjson.Get(w.Body.String(), "data").Array()
		assert.Len(s.T(), docs, 1)
		assert.Equal(s.T(), "emirates-id-front", docs[0].Get("document_type").String())
		assert.Contains(s.T(), docs[0].Get("file_url").String(), "https://files.local/")
	})
}

func (s *TestSuite) TestMobileScoping() {
	unit := s.Units["A-107"]
	req := s.seedMoveIn(unit, s.Resident, types.REQUEST_APPROVED, nil)

	s.Run("Should hide other residents' requests", func() {
		w := s.do("GET", fmt.Sprintf("/api/v1/move-in/request/%d", req.ID), s.OtherToken, nil)
		assert.Equal(s.T(), 404, w.Code)
	})

	s.Run("Should show the owner their request", func() {
		w := s.do("GET", fmt.Sprintf("/api/v1/move-in/request/%d", req.ID), s.ResidentToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), req.RequestNumber, gjson.Get(w.Body.String(), "data.request_number").String())
	})

	s.Run("Should list only the caller's requests", func() {
		w := s.do("GET", "/api/v1/move-in/request-list", s.OtherToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		for _, item := range gjson.Get(w.Body.String(), "data").Array() {
			assert.Equal(s.T(), int64(s.Other.ID), item.Get("user_id").Int())
		}
	})
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
