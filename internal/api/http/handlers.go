package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/ubigger/sales-report/internal/auth/jwt"
	"github.com/ubigger/sales-report/internal/entity"
	gerr "github.com/ubigger/sales-report/internal/errors"
	"github.com/ubigger/sales-report/internal/form"
	"github.com/ubigger/sales-report/internal/middleware"
	"github.com/ubigger/sales-report/internal/report"
)

type ctxKey int

const userKey ctxKey = iota

func userFromContext(ctx context.Context) *entity.User {
	u, _ := ctx.Value(userKey).(*entity.User)
	return u
}

// authenticate turns verified token claims into the request user.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			render.Render(w, r, ErrStatus(gerr.ErrUnauthorized))
			return
		}
		u, err := jwt.UserFromClaims(claims)
		if err != nil {
			render.Render(w, r, ErrStatus(gerr.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			u := userFromContext(r.Context())
			if err := s.limiter.CheckReport(u.LoginID, middleware.GetClientIP(r.Context())); err != nil {
				slog.Default().InfoContext(r.Context(), "report request rate limited",
					slog.String("login_id", u.LoginID),
					slog.String("request_id", middleware.GetRequestID(r.Context())),
				)
				render.Render(w, r, ErrTooManyRequests(err))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func reportQuery(r *http.Request) form.ReportQuery {
	q := r.URL.Query()
	return form.ReportQuery{
		Shop:        q.Get("shop"),
		Salesperson: q.Get("salesperson"),
		StartDate:   q.Get("startDate"),
		EndDate:     q.Get("endDate"),
	}
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	role := s.roles.Role(u)
	render.Render(w, r, &MeResponse{
		LoginID:  u.LoginID,
		Role:     string(role),
		RoleName: role.DisplayName(),
		ShopName: u.ShopName,
	})
}

func (s *Server) kpi(w http.ResponseWriter, r *http.Request) {
	q := reportQuery(r)
	if err := q.Validate(); err != nil {
		render.Render(w, r, ErrStatus(err))
		return
	}
	k, err := s.reports.ComputeKPI(r.Context(), userFromContext(r.Context()), q.Filter(s.loc))
	if err != nil {
		s.fail(w, r, "compute kpi", err)
		return
	}
	render.Render(w, r, NewKPIResponse(k))
}

func (s *Server) ranking(metric entity.Metric) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := form.RankingQuery{
			ReportQuery: reportQuery(r),
			Limit:       r.URL.Query().Get("limit"),
			Compare:     r.URL.Query().Get("compare"),
			YoY:         r.URL.Query().Get("yoy"),
		}
		if err := q.Validate(); err != nil {
			render.Render(w, r, ErrStatus(err))
			return
		}
		rows, err := s.reports.ComputeRanking(r.Context(), userFromContext(r.Context()), report.RankingRequest{
			Filter:          q.Filter(s.loc),
			Metric:          metric,
			Cap:             q.Cap(),
			CompareGlobal:   q.CompareGlobal(),
			CompareLastYear: q.CompareLastYear(),
		})
		if err != nil {
			s.fail(w, r, "compute ranking", err)
			return
		}
		render.Render(w, r, NewRankingResponse(rows, metric))
	}
}

func (s *Server) productDetail(w http.ResponseWriter, r *http.Request) {
	q := form.BreakdownQuery{
		ReportQuery: reportQuery(r),
		GoodsName:   r.URL.Query().Get("goodsName"),
		Type:        r.URL.Query().Get("type"),
		GroupBy:     r.URL.Query().Get("groupBy"),
	}
	if err := q.Validate(); err != nil {
		render.Render(w, r, ErrStatus(err))
		return
	}
	rows, err := s.reports.ComputeProductBreakdown(r.Context(), userFromContext(r.Context()), report.BreakdownRequest{
		ProductKey: q.GoodsName,
		GroupBy:    q.Grouping(),
		Metric:     q.Metric(),
		Period:     q.Period(s.loc),
		Shop:       q.Shop,
	})
	if err != nil {
		s.fail(w, r, "compute product breakdown", err)
		return
	}
	render.Render(w, r, NewDetailResponse(rows))
}

func (s *Server) productOrders(w http.ResponseWriter, r *http.Request) {
	q := form.ProductOrdersQuery{
		ReportQuery: reportQuery(r),
		GoodsName:   r.URL.Query().Get("goodsName"),
	}
	if err := q.Validate(); err != nil {
		render.Render(w, r, ErrStatus(err))
		return
	}
	lines, err := s.reports.ListProductOrders(r.Context(), userFromContext(r.Context()), report.ProductOrdersRequest{
		ProductKey: q.GoodsName,
		Filter:     q.Filter(s.loc),
	})
	if err != nil {
		s.fail(w, r, "list product orders", err)
		return
	}
	render.Render(w, r, NewOrderDetailsResponse(lines, s.loc))
}

func (s *Server) shops(w http.ResponseWriter, r *http.Request) {
	shops, err := s.reports.ListShops(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, "list shops", err)
		return
	}
	render.Render(w, r, NewShopsResponse(shops))
}

func (s *Server) salespeople(w http.ResponseWriter, r *http.Request) {
	names, err := s.reports.ListSalespeople(r.Context(), userFromContext(r.Context()), r.URL.Query().Get("shop"))
	if err != nil {
		s.fail(w, r, "list salespeople", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	render.Render(w, r, &SalespeopleResponse{Salespeople: names})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Default().ErrorContext(r.Context(), "can't "+op,
		slog.String("err", err.Error()),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	render.Render(w, r, ErrStatus(err))
}
