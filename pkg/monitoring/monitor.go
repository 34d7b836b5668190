package monitoring

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AnswersSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_answers_submitted_total",
		Help: "Answers received in successful submissions",
	})

	AnswersCorrect = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_answers_correct_total",
		Help: "Answers scored as correct",
	})

	CoinsAwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_coins_awarded_total",
		Help: "Coins awarded for correct answers",
	})
)

// Register adds every collector to reg. Passing nil uses the default registerer.
func Register(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(RequestCounter, RequestDuration, AnswersSubmitted, AnswersCorrect, CoinsAwarded)
}

// RecordSubmission updates the domain counters after a submission is stored.
func RecordSubmission(total, correct, coins int) {
	AnswersSubmitted.Add(float64(total))
	AnswersCorrect.Add(float64(correct))
	CoinsAwarded.Add(float64(coins))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("monitoring: response writer does not support hijacking")
	}
	return h.Hijack()
}

// Middleware labels requests by their mux route template so path ids do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
		RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
