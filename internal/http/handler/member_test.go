package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/membership/internal/http/handler"
	"basegraph.app/membership/internal/http/middleware"
	httprouter "basegraph.app/membership/internal/http/router"
	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/service"
)

var _ = Describe("MemberHandler", func() {
	var (
		router *gin.Engine
		svc    *mockMembershipService
		user   *model.User
	)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]any {
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockMembershipService{}
		user = &model.User{ID: 42, Email: "admin@x.com"}

		router.Use(func(c *gin.Context) {
			if user != nil {
				c.Request = c.Request.WithContext(middleware.WithUser(c.Request.Context(), user))
			}
			c.Next()
		})

		h := handler.NewMemberHandler(svc)
		httprouter.MemberRouter(router.Group(""), h, func(c *gin.Context) { c.Next() })
	})

	Describe("Invite", func() {
		It("returns 201 with the new member", func() {
			uid := int64(77)
			svc.inviteFn = func(_ context.Context, requesterID int64, ws, email string) (*model.Member, error) {
				Expect(requesterID).To(Equal(int64(42)))
				Expect(ws).To(Equal("ws-1"))
				Expect(email).To(Equal("a@x.com"))
				return &model.Member{
					ID:        9,
					PublicID:  "mem-1",
					Email:     email,
					UserID:    &uid,
					Role:      model.MemberRoleMember,
					Status:    model.MemberStatusInvited,
					CreatedAt: time.Now(),
				}, nil
			}

			w := do(http.MethodPost, "/workspaces/ws-1/members/invite", map[string]string{"email": "a@x.com"})

			Expect(w.Code).To(Equal(http.StatusCreated))
			resp := decode(w)
			Expect(resp["id"]).To(Equal("mem-1"))
			Expect(resp["user_id"]).To(Equal("77"))
			Expect(resp["status"]).To(Equal("invited"))
		})

		It("is not served on the member collection itself", func() {
			w := do(http.MethodPost, "/workspaces/ws-1/members", map[string]string{"email": "a@x.com"})
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 without an email", func() {
			w := do(http.MethodPost, "/workspaces/ws-1/members/invite", map[string]string{})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("passes 0 as the requester for anonymous calls", func() {
			user = nil
			svc.inviteFn = func(_ context.Context, requesterID int64, _, _ string) (*model.Member, error) {
				Expect(requesterID).To(BeZero())
				return nil, service.ErrUnauthenticated
			}

			w := do(http.MethodPost, "/workspaces/ws-1/members/invite", map[string]string{"email": "a@x.com"})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("asks for an upgrade when the workspace has no plan", func() {
			svc.inviteFn = func(context.Context, int64, string, string) (*model.Member, error) {
				return nil, fmt.Errorf("%w: %w", service.ErrNotFound, service.ErrNoActivePlan)
			}

			w := do(http.MethodPost, "/workspaces/ws-1/members/invite", map[string]string{"email": "a@x.com"})

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decode(w)["code"]).To(Equal("upgrade_required"))
		})

		DescribeTable("maps error kinds to status codes",
			func(err error, status int, code string) {
				svc.inviteFn = func(context.Context, int64, string, string) (*model.Member, error) {
					return nil, err
				}

				w := do(http.MethodPost, "/workspaces/ws-1/members/invite", map[string]string{"email": "a@x.com"})

				Expect(w.Code).To(Equal(status))
				Expect(decode(w)["code"]).To(Equal(code))
			},
			Entry("unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"),
			Entry("forbidden", service.ErrForbidden, http.StatusForbidden, "forbidden"),
			Entry("not found", service.ErrNotFound, http.StatusNotFound, "not_found"),
			Entry("conflict", service.ErrConflict, http.StatusConflict, "conflict"),
			Entry("invalid seat count", service.ErrInvalidSeatCount, http.StatusUnprocessableEntity, "invalid_seat_count"),
			Entry("invalid argument", service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"),
			Entry("internal", service.ErrInternal, http.StatusInternalServerError, "internal"),
			Entry("untyped", errors.New("boom"), http.StatusInternalServerError, "internal"),
		)

		It("does not leak the wrapped cause", func() {
			svc.inviteFn = func(context.Context, int64, string, string) (*model.Member, error) {
				return nil, fmt.Errorf("pq: connection refused: %w", service.ErrInternal)
			}

			w := do(http.MethodPost, "/workspaces/ws-1/members/invite", map[string]string{"email": "a@x.com"})

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("connection refused"))
		})
	})

	Describe("Remove", func() {
		It("returns success", func() {
			svc.removeFn = func(_ context.Context, requesterID int64, ws, memberID string) (service.RemoveResult, error) {
				Expect(ws).To(Equal("ws-1"))
				Expect(memberID).To(Equal("mem-1"))
				return service.RemoveResult{Success: true}, nil
			}

			w := do(http.MethodDelete, "/workspaces/ws-1/members/mem-1", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["success"]).To(BeTrue())
		})

		It("returns 404 for unknown members", func() {
			svc.removeFn = func(context.Context, int64, string, string) (service.RemoveResult, error) {
				return service.RemoveResult{}, service.ErrNotFound
			}

			w := do(http.MethodDelete, "/workspaces/ws-1/members/mem-x", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("List", func() {
		It("returns the members", func() {
			svc.listFn = func(context.Context, int64, string) ([]model.Member, error) {
				return []model.Member{
					{PublicID: "mem-1", Email: "a@x.com", Role: model.MemberRoleAdmin, Status: model.MemberStatusActive},
					{PublicID: "mem-2", Email: "b@x.com", Role: model.MemberRoleMember, Status: model.MemberStatusInvited},
				}, nil
			}

			w := do(http.MethodGet, "/workspaces/ws-1/members", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["members"]).To(HaveLen(2))
		})
	})

	Describe("Accept", func() {
		It("accepts as the signed-in user", func() {
			svc.acceptFn = func(_ context.Context, u *model.User, memberID string) (*model.Member, error) {
				Expect(u).To(Equal(user))
				Expect(memberID).To(Equal("mem-1"))
				return &model.Member{PublicID: memberID, Status: model.MemberStatusActive}, nil
			}

			w := do(http.MethodPost, "/members/mem-1/accept", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["status"]).To(Equal("active"))
		})
	})
})
