package services

import (
	"testing"

	"github.com/harukimoto/governance-ledger/internal/clock"
	"github.com/harukimoto/governance-ledger/internal/models"
	"github.com/harukimoto/governance-ledger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db             *gorm.DB
	clock          *clock.ManualClock
	projectService *ProjectService
	service        *TaskService

	creator *models.User
	member  *models.User
	viewer  *models.User
	project *models.Project
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
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
	suite.projectService = NewProjectService(
		repository.NewProjectRepository(suite.db),
		repository.NewUserRepository(suite.db),
		suite.clock,
	)
	suite.service = NewTaskService(
		repository.NewMilestoneRepository(suite.db),
		repository.NewTaskRepository(suite.db),
		suite.projectService,
		suite.clock,
	)

	suite.creator = suite.createTestUser("creator")
	suite.member = suite.createTestUser("member")
	suite.viewer = suite.createTestUser("viewer")

	suite.project, err = suite.projectService.CreateProject(CreateProjectInput{
		Name:      "Alpha",
		Deadline:  suite.clock.Height() + 100,
		CreatorID: suite.creator.ID,
	})
	suite.Require().NoError(err)

	for _, grant := range []struct {
		userID uint64
		role   models.Role
	}{
		{suite.member.ID, models.RoleMember},
		{suite.viewer.ID, models.RoleViewer},
	} {
		_, err = suite.projectService.AddTeamMember(AddTeamMemberInput{
			ProjectID: suite.project.ID,
			ActorID:   suite.creator.ID,
			UserID:    grant.userID,
			Role:      grant.role,
		})
		suite.Require().NoError(err)
	}
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskServiceTestSuite) createTestMilestone() *models.Milestone {
	milestone, err := suite.service.CreateMilestone(CreateMilestoneInput{
		ProjectID: suite.project.ID,
		ActorID:   suite.creator.ID,
		Name:      "M1",
		Deadline:  suite.clock.Height() + 50,
	})
	suite.Require().NoError(err)
	return milestone
}

func (suite *TaskServiceTestSuite) createTestTask(milestoneID uint64, deps []uint64) *models.Task {
	task, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID:    suite.project.ID,
		MilestoneID:  milestoneID,
		ActorID:      suite.member.ID,
		Name:         "Task",
		Deadline:     suite.clock.Height() + 30,
		Dependencies: deps,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) TestCreateMilestone_AllocatesSequentialIDs() {
	first := suite.createTestMilestone()
	second := suite.createTestMilestone()

	assert.Equal(suite.T(), uint64(1), first.MilestoneID)
	assert.Equal(suite.T(), uint64(2), second.MilestoneID)
	assert.Equal(suite.T(), models.StatusPending, first.Status)
	assert.Equal(suite.T(), uint64(0), first.TaskCount)

	project, err := suite.projectService.GetProject(suite.project.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), uint64(2), project.MilestoneCount)
}

func (suite *TaskServiceTestSuite) TestCreateMilestone_RequiresAdmin() {
	_, err := suite.service.CreateMilestone(CreateMilestoneInput{
		ProjectID: suite.project.ID,
		ActorID:   suite.member.ID,
		Name:      "M1",
		Deadline:  suite.clock.Height() + 50,
	})
	assert.ErrorIs(suite.T(), err, ErrNotAuthorized)
}

func (suite *TaskServiceTestSuite) TestCreateMilestone_InvalidDeadline() {
	_, err := suite.service.CreateMilestone(CreateMilestoneInput{
		ProjectID: suite.project.ID,
		ActorID:   suite.creator.ID,
		Name:      "M1",
		Deadline:  suite.clock.Height(),
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidDeadline)

	// The failed attempt did not consume a milestone ID
	milestone := suite.createTestMilestone()
	assert.Equal(suite.T(), uint64(1), milestone.MilestoneID)
}

func (suite *TaskServiceTestSuite) TestCreateMilestone_ProjectNotFound() {
	_, err := suite.service.CreateMilestone(CreateMilestoneInput{
		ProjectID: 42,
		ActorID:   suite.creator.ID,
		Name:      "M1",
		Deadline:  suite.clock.Height() + 50,
	})
	assert.ErrorIs(suite.T(), err, ErrProjectNotFound)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AllocatesPerMilestone() {
	first := suite.createTestMilestone()
	second := suite.createTestMilestone()

	t1 := suite.createTestTask(first.MilestoneID, nil)
	t2 := suite.createTestTask(first.MilestoneID, nil)
	t3 := suite.createTestTask(second.MilestoneID, nil)

	assert.Equal(suite.T(), uint64(1), t1.TaskID)
	assert.Equal(suite.T(), uint64(2), t2.TaskID)
	// Task IDs restart per milestone
	assert.Equal(suite.T(), uint64(1), t3.TaskID)

	milestone, err := suite.service.GetMilestone(suite.project.ID, first.MilestoneID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), uint64(2), milestone.TaskCount)
}

func (suite *TaskServiceTestSuite) TestCreateTask_MemberMayCreate() {
	milestone := suite.createTestMilestone()

	task, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		ActorID:     suite.member.ID,
		Name:        "T1",
		Deadline:    suite.clock.Height() + 30,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusPending, task.Status)
	assert.Nil(suite.T(), task.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_ViewerMayNot() {
	milestone := suite.createTestMilestone()

	_, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		ActorID:     suite.viewer.ID,
		Name:        "T1",
		Deadline:    suite.clock.Height() + 30,
	})
	assert.ErrorIs(suite.T(), err, ErrNotAuthorized)
}

func (suite *TaskServiceTestSuite) TestCreateTask_MilestoneNotFound() {
	_, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: 7,
		ActorID:     suite.member.ID,
		Name:        "T1",
		Deadline:    suite.clock.Height() + 30,
	})
	assert.ErrorIs(suite.T(), err, ErrMilestoneNotFound)
}

func (suite *TaskServiceTestSuite) TestCreateTask_TooManyDependencies() {
	milestone := suite.createTestMilestone()

	deps := make([]uint64, 11)
	for i := range deps {
		deps[i] = uint64(i + 1)
	}

	_, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID:    suite.project.ID,
		MilestoneID:  milestone.MilestoneID,
		ActorID:      suite.member.ID,
		Name:         "T1",
		Deadline:     suite.clock.Height() + 30,
		Dependencies: deps,
	})
	assert.ErrorIs(suite.T(), err, ErrTooManyDependencies)
}

func (suite *TaskServiceTestSuite) TestCreateTask_DependenciesKeepOrder() {
	milestone := suite.createTestMilestone()

	// Dependencies may point at tasks that do not exist yet
	task := suite.createTestTask(milestone.MilestoneID, []uint64{5, 2, 9})

	fetched, err := suite.service.GetTask(suite.project.ID, milestone.MilestoneID, task.TaskID)
	suite.Require().NoError(err)

	ids := make([]uint64, 0, len(fetched.Dependencies))
	for _, dep := range fetched.Dependencies {
		ids = append(ids, dep.DependsOnTaskID)
	}
	assert.Equal(suite.T(), []uint64{5, 2, 9}, ids)
}

func (suite *TaskServiceTestSuite) TestAssignTask_AdminAssignsMember() {
	milestone := suite.createTestMilestone()
	task := suite.createTestTask(milestone.MilestoneID, nil)

	assigned, err := suite.service.AssignTask(AssignTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.creator.ID,
		AssigneeID:  suite.member.ID,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(assigned.AssigneeID)
	assert.Equal(suite.T(), suite.member.ID, *assigned.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestAssignTask_NonMemberAssignee() {
	outsider := suite.createTestUser("outsider")
	milestone := suite.createTestMilestone()
	task := suite.createTestTask(milestone.MilestoneID, nil)

	_, err := suite.service.AssignTask(AssignTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.creator.ID,
		AssigneeID:  outsider.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *TaskServiceTestSuite) TestAssignTask_AssigneeMayReassign() {
	milestone := suite.createTestMilestone()
	task := suite.createTestTask(milestone.MilestoneID, nil)

	_, err := suite.service.AssignTask(AssignTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.creator.ID,
		AssigneeID:  suite.member.ID,
	})
	suite.Require().NoError(err)

	// The current assignee hands the task to the viewer without admin rank
	reassigned, err := suite.service.AssignTask(AssignTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.member.ID,
		AssigneeID:  suite.viewer.ID,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.viewer.ID, *reassigned.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestAssignTask_MemberRankInsufficient() {
	milestone := suite.createTestMilestone()
	task := suite.createTestTask(milestone.MilestoneID, nil)

	// Member rank alone does not allow assignment of an unassigned task
	_, err := suite.service.AssignTask(AssignTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.member.ID,
		AssigneeID:  suite.member.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrNotAuthorized)
}

func (suite *TaskServiceTestSuite) TestAssignTask_TaskNotFound() {
	milestone := suite.createTestMilestone()

	_, err := suite.service.AssignTask(AssignTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      99,
		ActorID:     suite.creator.ID,
		AssigneeID:  suite.member.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskStatus_InvalidStatus() {
	milestone := suite.createTestMilestone()
	task := suite.createTestTask(milestone.MilestoneID, nil)

	_, err := suite.service.UpdateTaskStatus(UpdateTaskStatusInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.member.ID,
		Status:      models.Status("DONE"),
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidStatus)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskStatus_FreeTransitions() {
	milestone := suite.createTestMilestone()
	task := suite.createTestTask(milestone.MilestoneID, nil)

	// Without dependencies any of the five values may replace any other
	for _, status := range []models.Status{
		models.StatusInProgress,
		models.StatusDelayed,
		models.StatusCancelled,
		models.StatusCompleted,
		models.StatusPending,
	} {
		updated, err := suite.service.UpdateTaskStatus(UpdateTaskStatusInput{
			ProjectID:   suite.project.ID,
			MilestoneID: milestone.MilestoneID,
			TaskID:      task.TaskID,
			ActorID:     suite.member.ID,
			Status:      status,
		})
		suite.Require().NoError(err)
		assert.Equal(suite.T(), status, updated.Status)
	}
}

func (suite *TaskServiceTestSuite) TestUpdateTaskStatus_AssigneeWithoutMemberRank() {
	milestone := suite.createTestMilestone()
	task := suite.createTestTask(milestone.MilestoneID, nil)

	// Viewer rank is below MEMBER, so the viewer cannot touch the task
	_, err := suite.service.UpdateTaskStatus(UpdateTaskStatusInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.viewer.ID,
		Status:      models.StatusInProgress,
	})
	assert.ErrorIs(suite.T(), err, ErrNotAuthorized)

	// Once assigned, the same viewer may update it
	_, err = suite.service.AssignTask(AssignTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.creator.ID,
		AssigneeID:  suite.viewer.ID,
	})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTaskStatus(UpdateTaskStatusInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.viewer.ID,
		Status:      models.StatusInProgress,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusInProgress, updated.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskStatus_DependencyGate() {
	milestone := suite.createTestMilestone()
	t1 := suite.createTestTask(milestone.MilestoneID, nil)
	t2 := suite.createTestTask(milestone.MilestoneID, nil)
	t3 := suite.createTestTask(milestone.MilestoneID, []uint64{t1.TaskID, t2.TaskID})

	complete := func(taskID uint64) (*models.Task, error) {
		return suite.service.UpdateTaskStatus(UpdateTaskStatusInput{
			ProjectID:   suite.project.ID,
			MilestoneID: milestone.MilestoneID,
			TaskID:      taskID,
			ActorID:     suite.member.ID,
			Status:      models.StatusCompleted,
		})
	}

	// Both prerequisites pending
	_, err := complete(t3.TaskID)
	assert.ErrorIs(suite.T(), err, ErrDependencyIncomplete)

	_, err = complete(t1.TaskID)
	suite.Require().NoError(err)

	// One prerequisite still pending
	_, err = complete(t3.TaskID)
	assert.ErrorIs(suite.T(), err, ErrDependencyIncomplete)

	_, err = complete(t2.TaskID)
	suite.Require().NoError(err)

	updated, err := complete(t3.TaskID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusCompleted, updated.Status)

	// Non-COMPLETED transitions were never gated
	_, err = suite.service.UpdateTaskStatus(UpdateTaskStatusInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      t3.TaskID,
		ActorID:     suite.member.ID,
		Status:      models.StatusDelayed,
	})
	suite.Require().NoError(err)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskStatus_MissingDependencyCountsIncomplete() {
	milestone := suite.createTestMilestone()
	task := suite.createTestTask(milestone.MilestoneID, []uint64{99})

	_, err := suite.service.UpdateTaskStatus(UpdateTaskStatusInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     suite.member.ID,
		Status:      models.StatusCompleted,
	})
	assert.ErrorIs(suite.T(), err, ErrDependencyIncomplete)
}

func (suite *TaskServiceTestSuite) TestUpdateMilestoneStatus() {
	milestone := suite.createTestMilestone()

	updated, err := suite.service.UpdateMilestoneStatus(suite.project.ID, milestone.MilestoneID, suite.creator.ID, models.StatusInProgress)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusInProgress, updated.Status)

	_, err = suite.service.UpdateMilestoneStatus(suite.project.ID, milestone.MilestoneID, suite.member.ID, models.StatusCompleted)
	assert.ErrorIs(suite.T(), err, ErrNotAuthorized)
}

func (suite *TaskServiceTestSuite) TestGetTasksByAssignee() {
	milestone := suite.createTestMilestone()
	t1 := suite.createTestTask(milestone.MilestoneID, nil)
	suite.createTestTask(milestone.MilestoneID, nil)

	_, err := suite.service.AssignTask(AssignTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      t1.TaskID,
		ActorID:     suite.creator.ID,
		AssigneeID:  suite.member.ID,
	})
	suite.Require().NoError(err)

	tasks, err := suite.service.GetTasksByAssignee(suite.project.ID, suite.member.ID)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), t1.TaskID, tasks[0].TaskID)

	tasks, err = suite.service.GetTasksByAssignee(suite.project.ID, suite.viewer.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), tasks)
}

func (suite *TaskServiceTestSuite) TestGetUpcomingDeadlines() {
	// Project deadline is 200; current height 100
	milestoneNear, err := suite.service.CreateMilestone(CreateMilestoneInput{
		ProjectID: suite.project.ID,
		ActorID:   suite.creator.ID,
		Name:      "Near",
		Deadline:  120,
	})
	suite.Require().NoError(err)

	_, err = suite.service.CreateMilestone(CreateMilestoneInput{
		ProjectID: suite.project.ID,
		ActorID:   suite.creator.ID,
		Name:      "Far",
		Deadline:  500,
	})
	suite.Require().NoError(err)

	_, err = suite.service.CreateTask(CreateTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestoneNear.MilestoneID,
		ActorID:     suite.member.ID,
		Name:        "Soon",
		Deadline:    110,
	})
	suite.Require().NoError(err)

	_, err = suite.service.CreateTask(CreateTaskInput{
		ProjectID:   suite.project.ID,
		MilestoneID: milestoneNear.MilestoneID,
		ActorID:     suite.member.ID,
		Name:        "Later",
		Deadline:    400,
	})
	suite.Require().NoError(err)

	deadlines, err := suite.service.GetUpcomingDeadlines(suite.project.ID, 50)
	suite.Require().NoError(err)

	// Window is [100, 150]: one milestone and one task qualify, project (200) does not
	assert.Nil(suite.T(), deadlines.Project)
	suite.Require().Len(deadlines.Milestones, 1)
	assert.Equal(suite.T(), "Near", deadlines.Milestones[0].Name)
	suite.Require().Len(deadlines.Tasks, 1)
	assert.Equal(suite.T(), "Soon", deadlines.Tasks[0].Name)

	// A wider window picks up the project deadline too
	deadlines, err = suite.service.GetUpcomingDeadlines(suite.project.ID, 100)
	suite.Require().NoError(err)
	suite.Require().NotNil(deadlines.Project)
	assert.Equal(suite.T(), suite.project.ID, deadlines.Project.ID)
}

// TestGovernanceScenario walks the end-to-end flow: project creation,
// membership grant, rank-gated milestone creation, task creation by a
// member, and completion with an empty dependency list.
func (suite *TaskServiceTestSuite) TestGovernanceScenario() {
	m := suite.createTestUser("scenario-member")

	project, err := suite.projectService.CreateProject(CreateProjectInput{
		Name:      "Scenario",
		Deadline:  suite.clock.Height() + 100,
		CreatorID: suite.creator.ID,
	})
	suite.Require().NoError(err)

	_, err = suite.projectService.AddTeamMember(AddTeamMemberInput{
		ProjectID: project.ID,
		ActorID:   suite.creator.ID,
		UserID:    m.ID,
		Role:      models.RoleMember,
	})
	suite.Require().NoError(err)

	// A MEMBER cannot create milestones
	_, err = suite.service.CreateMilestone(CreateMilestoneInput{
		ProjectID: project.ID,
		ActorID:   m.ID,
		Name:      "M1",
		Deadline:  suite.clock.Height() + 50,
	})
	assert.ErrorIs(suite.T(), err, ErrNotAuthorized)

	milestone, err := suite.service.CreateMilestone(CreateMilestoneInput{
		ProjectID: project.ID,
		ActorID:   suite.creator.ID,
		Name:      "M1",
		Deadline:  suite.clock.Height() + 50,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), uint64(1), milestone.MilestoneID)

	task, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID:   project.ID,
		MilestoneID: milestone.MilestoneID,
		ActorID:     m.ID,
		Name:        "T1",
		Deadline:    suite.clock.Height() + 30,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), uint64(1), task.TaskID)

	// Empty dependency list: completion always passes the gate
	updated, err := suite.service.UpdateTaskStatus(UpdateTaskStatusInput{
		ProjectID:   project.ID,
		MilestoneID: milestone.MilestoneID,
		TaskID:      task.TaskID,
		ActorID:     m.ID,
		Status:      models.StatusCompleted,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusCompleted, updated.Status)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
