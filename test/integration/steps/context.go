// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finly/backend/config"
	"github.com/finly/backend/internal/infra/dependency"
	"github.com/finly/backend/internal/integration/persistence/model"
	"github.com/finly/backend/test/integration/mock"
)

const (
	testJWTSecret      = "test-jwt-secret-key-for-testing-purposes"
	testDefaultPass    = "DefaultPass123!"
	testMaxUploadBytes = 4096
)

// tableOrder lists the tables in migration order; they are cleared in reverse.
var tableOrder = []string{"users", "categories", "transactions", "transaction_tags"}

type testContext struct {
	uri               string
	headers           map[string]string
	client            *http.Client
	response          *response
	db                *mock.Db
	redis             *mock.Redis
	ocr               *mock.ApiMock
	timeMock          *mock.Time
	uploadDir         string
	accessToken       string
	refreshToken      string
	currentUserID     uuid.UUID
	currentCategoryID uuid.UUID
	transactionIDs    []uuid.UUID
	lastTransactionID uuid.UUID
}

type response struct {
	status  int
	headers http.Header
	raw     []byte
	body    any
}

var (
	envInit    sync.Once
	serverInit sync.Once
	serverErr  error

	testServerPort int
	testUploadDir  string
	testOCR        *mock.ApiMock
)

// initializeEnvironment starts the collaborator mocks and points the
// configuration at them. It runs once per test binary.
func initializeEnvironment() {
	envInit.Do(func() {
		testServerPort = findAvailablePort()

		testOCR = mock.NewApiServer()
		testOCR.Start()

		dir, err := os.MkdirTemp("", "finly-uploads-*")
		if err != nil {
			panic(err)
		}
		testUploadDir = dir

		_ = os.Setenv("ENV", "test")
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("JWT_SECRET", testJWTSecret)
		_ = os.Setenv("OCR_SERVICE_URL", testOCR.GetUrl())
		_ = os.Setenv("OCR_TIMEOUT", "5s")
		_ = os.Setenv("OCR_MAX_UPLOAD_BYTES", strconv.Itoa(testMaxUploadBytes))
		_ = os.Setenv("UPLOAD_DIR", testUploadDir)
	})
}

// InitializeTestSuite releases the shared mocks after the last scenario.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})

	ctx.AfterSuite(func() {
		if testOCR != nil {
			testOCR.Close()
		}
		if testUploadDir != "" {
			_ = os.RemoveAll(testUploadDir)
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializeEnvironment()

	test := &testContext{
		uri:       fmt.Sprintf("http://localhost:%d", testServerPort),
		client:    &http.Client{Timeout: 10 * time.Second},
		timeMock:  mock.NewTime(),
		ocr:       testOCR,
		uploadDir: testUploadDir,
		redis:     mock.NewRedis(),
		db: mock.NewDb(tableOrder, map[string]any{
			"users":            &model.UserModel{},
			"categories":       &model.CategoryModel{},
			"transactions":     &model.TransactionModel{},
			"transaction_tags": &model.TransactionTagModel{},
		}),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// User setup steps
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, test.aUserExistsWithEmailAndPassword)
	ctx.Given(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)

	// Category setup steps
	ctx.Given(`^the default categories are seeded$`, test.theDefaultCategoriesAreSeeded)
	ctx.Given(`^a category exists with name "([^"]*)" and type "([^"]*)"$`, test.aCategoryExistsWithNameAndType)
	ctx.Given(`^I use the category "([^"]*)"$`, test.iUseTheCategory)

	// Transaction setup steps
	ctx.Given(`^the following transactions exist:$`, test.theFollowingTransactionsExist)

	// OCR collaborator steps
	ctx.Given(`^the OCR service responds to "([^"]*)" "([^"]*)" with status (\d+) and body:$`, test.theOCRServiceRespondsWith)
	ctx.Given(`^the OCR service responds to "([^"]*)" "([^"]*)" with status (\d+)$`, test.theOCRServiceRespondsWithStatus)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^I upload the file "([^"]*)" of (\d+) bytes to "([^"]*)"$`, test.iUploadTheFileTo)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should be null$`, test.theResponseFieldShouldBeNull)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, test.theResponseFieldShouldHaveItems)
	ctx.Then(`^the response header "([^"]*)" should contain "([^"]*)"$`, test.theResponseHeaderShouldContain)
	ctx.Then(`^the response body should start with "([^"]*)"$`, test.theResponseBodyShouldStartWith)

	// Collaborator assertion steps
	ctx.Then(`^the OCR service should have received (\d+) requests? to "([^"]*)" "([^"]*)"$`, test.theOCRServiceShouldHaveReceived)
	ctx.Then(`^the OCR request (\d+) to "([^"]*)" "([^"]*)" should carry the file "([^"]*)" in field "([^"]*)"$`, test.theOCRRequestShouldCarryTheFile)
	ctx.Then(`^the OCR request (\d+) to "([^"]*)" "([^"]*)" should have the field "([^"]*)" with "([^"]*)"$`, test.theOCRRequestShouldHaveTheField)
	ctx.Then(`^the upload directory should contain (\d+) files?$`, test.theUploadDirectoryShouldContainFiles)
	ctx.Then(`^the user "([^"]*)" should have (\d+) active refresh tokens?$`, test.theUserShouldHaveActiveRefreshTokens)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.currentUserID = uuid.Nil
	t.currentCategoryID = uuid.Nil
	t.transactionIDs = nil
	t.lastTransactionID = uuid.Nil

	t.ocr.Reset()
	t.ocr.SetResponse(-1, http.MethodGet, "/health", http.StatusOK, map[string]any{"status": "healthy"})

	if err := t.db.ClearDB(); err != nil {
		return err
	}
	if err := t.redis.Clear(); err != nil {
		return err
	}
	return clearDir(t.uploadDir)
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// startServer wires the application through the production injector over the
// sqlite and miniredis mocks, then waits for /health.
func (t *testContext) startServer() error {
	serverInit.Do(func() {
		cfg := config.Load()

		injector, err := dependency.NewInjector(cfg, t.db.DbConn, t.redis.Client)
		if err != nil {
			serverErr = err
			return
		}
		engine := injector.Router.Setup(cfg.Server.Environment)

		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: engine,
		}
		go func() {
			_ = server.ListenAndServe()
		}()
	})
	if serverErr != nil {
		return serverErr
	}

	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become healthy on %s", t.uri)
}
