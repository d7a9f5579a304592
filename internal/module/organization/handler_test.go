package organization

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/etaskify/server/internal/domain/membership"
	"github.com/etaskify/server/internal/infra/events"
	"github.com/etaskify/server/internal/model"
	"github.com/etaskify/server/internal/port/outbound"
	"github.com/etaskify/server/internal/utils/middleware"
)

// Function-backed port stubs. Only the calls a test cares about get a
// function; anything else panics and fails the test loudly.

type stubOrgDB struct {
	findByID   func(ctx context.Context, id int64) (*model.Organization, error)
	findPublic func(ctx context.Context, search string) ([]*model.Organization, error)
	create     func(ctx context.Context, org *model.Organization) error
}

func (s *stubOrgDB) Create(ctx context.Context, org *model.Organization) error {
	return s.create(ctx, org)
}
func (s *stubOrgDB) FindByID(ctx context.Context, id int64) (*model.Organization, error) {
	return s.findByID(ctx, id)
}
func (s *stubOrgDB) FindPublic(ctx context.Context, search string) ([]*model.Organization, error) {
	return s.findPublic(ctx, search)
}

type stubMemberDB struct {
	add    func(ctx context.Context, mb *model.Membership) error
	exists func(ctx context.Context, userID, orgID int64) (bool, error)
}

func (s *stubMemberDB) Add(ctx context.Context, mb *model.Membership) error {
	return s.add(ctx, mb)
}
func (s *stubMemberDB) Exists(ctx context.Context, userID, orgID int64) (bool, error) {
	return s.exists(ctx, userID, orgID)
}

type stubInviteDB struct {
	create            func(ctx context.Context, invite *model.Invite) error
	findByID          func(ctx context.Context, id int64) (*model.Invite, error)
	hasPending        func(ctx context.Context, orgID, invitedUserID int64) (bool, error)
	findPendingByUser func(ctx context.Context, invitedUserID int64) ([]*model.Invite, error)
	updateStatus      func(ctx context.Context, id int64, status model.RequestStatus) error
}

func (s *stubInviteDB) Create(ctx context.Context, invite *model.Invite) error {
	return s.create(ctx, invite)
}
func (s *stubInviteDB) FindByID(ctx context.Context, id int64) (*model.Invite, error) {
	return s.findByID(ctx, id)
}
func (s *stubInviteDB) HasPending(ctx context.Context, orgID, invitedUserID int64) (bool, error) {
	return s.hasPending(ctx, orgID, invitedUserID)
}
func (s *stubInviteDB) FindPendingByUser(ctx context.Context, invitedUserID int64) ([]*model.Invite, error) {
	return s.findPendingByUser(ctx, invitedUserID)
}
func (s *stubInviteDB) UpdateStatus(ctx context.Context, id int64, status model.RequestStatus) error {
	return s.updateStatus(ctx, id, status)
}

type stubJoinRequestDB struct{}

func (s *stubJoinRequestDB) Create(ctx context.Context, request *model.JoinRequest) error {
	panic("unexpected Create")
}
func (s *stubJoinRequestDB) FindByID(ctx context.Context, id int64) (*model.JoinRequest, error) {
	panic("unexpected FindByID")
}
func (s *stubJoinRequestDB) HasPending(ctx context.Context, orgID, userID int64) (bool, error) {
	panic("unexpected HasPending")
}
func (s *stubJoinRequestDB) FindPendingByOrganization(ctx context.Context, orgID int64) ([]*model.JoinRequest, error) {
	panic("unexpected FindPendingByOrganization")
}
func (s *stubJoinRequestDB) UpdateStatus(ctx context.Context, id int64, status model.RequestStatus) error {
	panic("unexpected UpdateStatus")
}

type stubDirectory struct {
	findByUsername func(ctx context.Context, username string) (*outbound.UserInfo, error)
}

func (s *stubDirectory) FindByUsername(ctx context.Context, username string) (*outbound.UserInfo, error) {
	return s.findByUsername(ctx, username)
}
func (s *stubDirectory) FindByID(ctx context.Context, id int64) (*outbound.UserInfo, error) {
	panic("unexpected FindByID")
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

type handlerFixture struct {
	orgDB     *stubOrgDB
	memberDB  *stubMemberDB
	inviteDB  *stubInviteDB
	directory *stubDirectory
}

func newRouter(t *testing.T, actorID int64, f *handlerFixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	domain := membership.NewDomain(
		f.orgDB,
		f.memberDB,
		f.inviteDB,
		&stubJoinRequestDB{},
		f.directory,
		passthroughTx{},
		nopPublisher{},
		membership.DefaultConfig(),
		zap.NewNop(),
	)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, actorID)
	})
	NewHandler(domain).RegisterRoutes(api)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateOrganization(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := &handlerFixture{
			orgDB: &stubOrgDB{
				create: func(ctx context.Context, org *model.Organization) error {
					org.ID = 7
					return nil
				},
			},
			memberDB: &stubMemberDB{
				add: func(ctx context.Context, mb *model.Membership) error { return nil },
			},
		}
		router := newRouter(t, 10, f)

		w := doJSON(router, http.MethodPost, "/api/v1/organizations", `{"name":"Acme","is_private":true}`)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp OrganizationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, int64(10), resp.OwnerID)
		assert.True(t, resp.IsPrivate)
	})

	t.Run("missing_name", func(t *testing.T) {
		router := newRouter(t, 10, &handlerFixture{})

		w := doJSON(router, http.MethodPost, "/api/v1/organizations", `{"is_private":true}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_InviteUser_ErrorCodes(t *testing.T) {
	org := &model.Organization{ID: 1, Name: "Acme", OwnerID: 10, IsPrivate: true}

	cases := []struct {
		name       string
		actorID    int64
		fixture    *handlerFixture
		wantStatus int
		wantCode   string
	}{
		{
			name:    "not_owner",
			actorID: 99,
			fixture: &handlerFixture{
				orgDB: &stubOrgDB{
					findByID: func(ctx context.Context, id int64) (*model.Organization, error) {
						return org, nil
					},
				},
			},
			wantStatus: http.StatusForbidden,
			wantCode:   "NOT_AUTHORIZED",
		},
		{
			name:    "already_member",
			actorID: 10,
			fixture: &handlerFixture{
				orgDB: &stubOrgDB{
					findByID: func(ctx context.Context, id int64) (*model.Organization, error) {
						return org, nil
					},
				},
				directory: &stubDirectory{
					findByUsername: func(ctx context.Context, username string) (*outbound.UserInfo, error) {
						return &outbound.UserInfo{ID: 20, Username: username}, nil
					},
				},
				memberDB: &stubMemberDB{
					exists: func(ctx context.Context, userID, orgID int64) (bool, error) {
						return true, nil
					},
				},
			},
			wantStatus: http.StatusConflict,
			wantCode:   "ALREADY_MEMBER",
		},
		{
			name:    "ghost_user",
			actorID: 10,
			fixture: &handlerFixture{
				orgDB: &stubOrgDB{
					findByID: func(ctx context.Context, id int64) (*model.Organization, error) {
						return org, nil
					},
				},
				directory: &stubDirectory{
					findByUsername: func(ctx context.Context, username string) (*outbound.UserInfo, error) {
						return nil, outbound.ErrUserNotFound
					},
				},
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "INVITED_USER_NOT_FOUND",
		},
		{
			name:    "directory_down",
			actorID: 10,
			fixture: &handlerFixture{
				orgDB: &stubOrgDB{
					findByID: func(ctx context.Context, id int64) (*model.Organization, error) {
						return org, nil
					},
				},
				directory: &stubDirectory{
					findByUsername: func(ctx context.Context, username string) (*outbound.UserInfo, error) {
						return nil, outbound.ErrCollaboratorUnavailable
					},
				},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "COLLABORATOR_UNAVAILABLE",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(t, tc.actorID, tc.fixture)

			w := doJSON(router, http.MethodPost, "/api/v1/organizations/1/invites", `{"username":"alice"}`)

			require.Equal(t, tc.wantStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body["code"])
		})
	}
}

func TestHandler_InvalidPathID(t *testing.T) {
	router := newRouter(t, 10, &handlerFixture{})

	w := doJSON(router, http.MethodPost, "/api/v1/invites/abc/accept", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListPendingInvites(t *testing.T) {
	f := &handlerFixture{
		inviteDB: &stubInviteDB{
			findPendingByUser: func(ctx context.Context, invitedUserID int64) ([]*model.Invite, error) {
				return []*model.Invite{
					{ID: 5, OrganizationID: 1, InvitedUserID: invitedUserID, Status: model.RequestStatusPending},
				}, nil
			},
		},
		orgDB: &stubOrgDB{
			findByID: func(ctx context.Context, id int64) (*model.Organization, error) {
				return &model.Organization{ID: id, Name: "Acme"}, nil
			},
		},
	}
	router := newRouter(t, 20, f)

	w := doJSON(router, http.MethodGet, "/api/v1/invites", "")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Invites []*InviteResponse `json:"invites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Invites, 1)
	assert.Equal(t, "Acme", body.Invites[0].OrganizationName)
}
