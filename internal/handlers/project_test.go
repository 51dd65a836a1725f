package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/harukimoto/governance-ledger/internal/clock"
	"github.com/harukimoto/governance-ledger/internal/constants"
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/repository"
	"github.com/harukimoto/governance-ledger/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db             *gorm.DB
	clock          *clock.ManualClock
	projectService *services.ProjectService
	handler        *ProjectHandler
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Milestone{},
		&models.Task{},
		&models.TaskDependency{},
		&models.Communication{},
	)
	suite.Require().NoError(err)

	suite.clock = clock.NewManualClock(100)
	suite.projectService = services.NewProjectService(
		repository.NewProjectRepository(suite.db),
		repository.NewUserRepository(suite.db),
		suite.clock,
	)
	suite.handler = NewProjectHandler(suite.projectService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

// createAuthContext builds a request context with an authenticated user
func (suite *ProjectHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if userID != 0 {
		c.Set(constants.ContextKeyUserID, userID)
	}

	return c, w
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_Success() {
	user := suite.createTestUser("creator")

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Alpha",
		"description": "First project",
		"deadline":    200,
	})

	c, w := suite.createAuthContext("POST", "/api/projects", body, user.ID)
	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), float64(1), response["id"])
	assert.Equal(suite.T(), "Alpha", response["name"])
	assert.Equal(suite.T(), "PENDING", response["status"])
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_InvalidDeadline() {
	user := suite.createTestUser("creator")

	body, _ := json.Marshal(map[string]interface{}{
		"name":     "Alpha",
		"deadline": 100, // not above the current height
	})

	c, w := suite.createAuthContext("POST", "/api/projects", body, user.ID)
	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "INVALID_DEADLINE", response["code"])
}

func (suite *ProjectHandlerTestSuite) TestGetProject_NotFound() {
	c, w := suite.createAuthContext("GET", "/api/projects/42", nil, 0)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	suite.handler.GetProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "PROJECT_NOT_FOUND", response["code"])
}

func (suite *ProjectHandlerTestSuite) TestAddTeamMember_Conflict() {
	creator := suite.createTestUser("creator")
	member := suite.createTestUser("member")

	_, err := suite.projectService.CreateProject(services.CreateProjectInput{
		Name:      "Alpha",
		Deadline:  200,
		CreatorID: creator.ID,
	})
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]interface{}{
		"user_id": member.ID,
		"role":    2,
	})

	c, w := suite.createAuthContext("POST", "/api/projects/1/members", body, creator.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.AddTeamMember(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	// Granting the same user twice surfaces ALREADY_EXISTS
	c, w = suite.createAuthContext("POST", "/api/projects/1/members", body, creator.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.AddTeamMember(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ALREADY_EXISTS", response["code"])
}

func (suite *ProjectHandlerTestSuite) TestGetMemberRole() {
	creator := suite.createTestUser("creator")

	_, err := suite.projectService.CreateProject(services.CreateProjectInput{
		Name:      "Alpha",
		Deadline:  200,
		CreatorID: creator.ID,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("GET", "/api/projects/1/members/1", nil, 0)
	c.Params = gin.Params{{Key: "id", Value: "1"}, {Key: "user_id", Value: "1"}}
	suite.handler.GetMemberRole(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "admin", response["role"])
	assert.Equal(suite.T(), float64(1), response["rank"])
}

func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
