package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskComment{},
		&models.CommentReaction{},
		&models.Notification{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func seedComment(t *testing.T, db *gorm.DB) *models.TaskComment {
	t.Helper()

	user := &models.User{Email: "author@example.com", PasswordHash: "x", FirstName: "A", LastName: "B", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	project := &models.Project{Name: "P", OwnerID: user.ID, Color: models.DefaultProjectColor}
	require.NoError(t, db.Create(project).Error)
	task := &models.Task{Title: "T", ProjectID: project.ID, CreatorID: user.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium}
	require.NoError(t, db.Create(task).Error)
	comment := &models.TaskComment{TaskID: task.ID, UserID: user.ID, CommentText: "hello"}
	require.NoError(t, db.Create(comment).Error)

	return comment
}

func TestApplyReactionChange_CreateRetypeRemove(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCommentRepository(db)
	comment := seedComment(t, db)

	like, dislike := models.ReactionTypeLike, models.ReactionTypeDislike

	// Create.
	updated, err := repo.ApplyReactionChange(comment.ID, 42, ReactionChange{Set: &like, LikesDelta: 1})
	require.NoError(t, err)
	require.Equal(t, 1, updated.LikesCount)

	reaction, err := repo.FindReaction(comment.ID, 42)
	require.NoError(t, err)
	require.Equal(t, like, reaction.Type)

	// Retype.
	updated, err = repo.ApplyReactionChange(comment.ID, 42, ReactionChange{Set: &dislike, LikesDelta: -1, DislikesDelta: 1})
	require.NoError(t, err)
	require.Equal(t, 0, updated.LikesCount)
	require.Equal(t, 1, updated.DislikesCount)

	reaction, err = repo.FindReaction(comment.ID, 42)
	require.NoError(t, err)
	require.Equal(t, dislike, reaction.Type)

	// Remove.
	updated, err = repo.ApplyReactionChange(comment.ID, 42, ReactionChange{Set: nil, DislikesDelta: -1})
	require.NoError(t, err)
	require.Equal(t, 0, updated.DislikesCount)

	_, err = repo.FindReaction(comment.ID, 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApplyReactionChange_CountersClampAtZero(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCommentRepository(db)
	comment := seedComment(t, db)

	updated, err := repo.ApplyReactionChange(comment.ID, 42, ReactionChange{Set: nil, LikesDelta: -5, DislikesDelta: -5})
	require.NoError(t, err)
	require.Equal(t, 0, updated.LikesCount)
	require.Equal(t, 0, updated.DislikesCount)
}

func TestApplyReactionChange_MissingComment(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCommentRepository(db)

	like := models.ReactionTypeLike
	_, err := repo.ApplyReactionChange(9999, 42, ReactionChange{Set: &like, LikesDelta: 1})
	require.Error(t, err)
}

func TestReactionPrimaryKey_RejectsDuplicatePair(t *testing.T) {
	db := setupRepoTestDB(t)
	comment := seedComment(t, db)

	first := models.CommentReaction{CommentID: comment.ID, UserID: 42, Type: models.ReactionTypeLike}
	require.NoError(t, db.Create(&first).Error)

	second := models.CommentReaction{CommentID: comment.ID, UserID: 42, Type: models.ReactionTypeDislike}
	err := db.Create(&second).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
