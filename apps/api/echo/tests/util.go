package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/alert"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/user"
	"github.com/trezcool/mahudhurio/fs"
	"github.com/trezcool/mahudhurio/services/email"
	"github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/database/inmem"
	"github.com/trezcool/mahudhurio/storage/kv/inmem"
	"github.com/trezcool/mahudhurio/tests"
)

var (
	conf = &core.Config{
		AppName:   "Mahudhurio",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: "secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			SessionTTL:         time.Hour,
		},
	}

	student = user.User{ID: "s1", Name: "Student s1", Roles: []string{user.RoleStudent}}
	teacher = user.User{ID: "t1", Name: "Ada", Email: "ada@school.test", Roles: []string{user.RoleTeacher}}
	admin   = user.User{ID: "a1", Name: "Admin", Roles: []string{user.RoleAdmin}}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type testApp struct {
	*Server
	mailer *emailsvc.ConsoleService
}

// setup returns a server backed by in-memory stores holding:
// s1/math 40,50,60% and s1/bio 100% from January to March 2024, s2/math 80%.
func setup(t *testing.T) testApp {
	if err := core.ParseEmailTemplates(appfs.FS, true); err != nil {
		t.Fatalf("ParseEmailTemplates() failed: %v", err)
	}

	// freeze the clock after the data so that no month is split into weeks
	attendance.NowFunc = func() time.Time { return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { attendance.NowFunc = time.Now })

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	repo := inmemdb.NewAttendanceRepository(db)
	if err = repo.UpsertSubjects(context.Background(),
		attendance.Subject{ID: "math", Name: "math", TeacherName: "Ada", TeacherEmail: "ada@school.test"},
		attendance.Subject{ID: "bio", Name: "bio"},
	); err != nil {
		t.Fatalf("UpsertSubjects() failed: %v", err)
	}
	jan := time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC)
	testutil.MonthlySeries(t, repo, "s1", "math", jan, 40, 50, 60)
	testutil.MonthlySeries(t, repo, "s1", "bio", jan, 100, 100, 100)
	testutil.MonthlySeries(t, repo, "s2", "math", jan, 80, 80, 80)

	// set up services
	translator := core.NewTranslator()
	mailer := emailsvc.NewConsoleServiceMock(conf)
	attSvc := attendance.NewService(repo, attendance.DefaultSettings())

	return testApp{
		Server: NewServer(ServerDeps{
			Conf:           conf,
			Logger:         logsvc.NewRollbarLogger(log.New(new(bytes.Buffer), "", 0), conf),
			AttendanceSvc:  attSvc,
			AlertSvc:       alert.NewService(attSvc, mailer, conf),
			Sessions:       session.NewManager(inmemkv.NewStore(), conf.Server.SessionTTL),
			Validate:       core.NewValidator(translator),
			Translator:     translator,
			DisableReqLogs: true,
		}),
		mailer: mailer,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(GetUserClaims(usr, conf), conf.SecretKey)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchall() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	l1, ok1 := j1.([]interface{})
	l2, ok2 := j2.([]interface{})
	if ok1 && ok2 {
		return assert.ElementsMatch(t, l1, l2), nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
