package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	LoginSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "login_success_total",
		Help: "Total successful login attempts",
	})

	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_failure_total",
		Help: "Total failed login attempts",
	}, []string{"reason"})

	RegisterSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_success_total",
		Help: "Total successful register attempts",
	})

	FriendRequestsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "friend_requests_sent_total",
		Help: "Total friend requests created",
	})

	FriendRequestsResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "friend_requests_resolved_total",
		Help: "Total friend requests accepted or rejected",
	}, []string{"action"})

	Unfriended = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "friendships_removed_total",
		Help: "Total friendships removed",
	})

	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "messages_sent_total",
		Help: "Total direct messages stored",
	})
)

func init() {
	prometheus.MustRegister(
		RequestDuration,
		LoginSuccess,
		LoginFailure,
		RegisterSuccess,
		FriendRequestsSent,
		FriendRequestsResolved,
		Unfriended,
		MessagesSent,
	)
}

// Middleware 记录每个请求的耗时和状态码，route 使用注册时的路径模板
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
