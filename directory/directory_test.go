package directory

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"fitlink/models"
)

func newMockDirectory(t *testing.T) (*Directory, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func expectNoConnections(mock sqlmock.Sqlmock, userID string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, friend_id FROM friendships")).
		WithArgs(userID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "friend_id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sender_id, receiver_id FROM friend_requests")).
		WithArgs(userID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"sender_id", "receiver_id"}))
}

func TestSearchUsersRequiresSession(t *testing.T) {
	d, _ := newMockDirectory(t)

	_, err := d.SearchUsers(context.Background(), nil, "ann")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = d.SearchUsers(context.Background(), &Session{}, "ann")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSearchUsersMatchesSubstring(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, avatar, fitness_goal FROM profiles")).
		WithArgs("9", "%ann%", searchLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "avatar", "fitness_goal"}).
			AddRow("1", "anna", "", "").
			AddRow("2", "anne", "", ""))
	expectNoConnections(mock, "9")

	got, err := d.SearchUsers(context.Background(), &Session{UserID: "9"}, "ann")
	require.NoError(t, err)
	require.Equal(t, []models.ProfileSummary{
		{ID: "1", Username: "anna"},
		{ID: "2", Username: "anne"},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUsersExcludesFriendsAndPending(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, avatar, fitness_goal FROM profiles")).
		WithArgs("9", "%a%", searchLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "avatar", "fitness_goal"}).
			AddRow("1", "anna", "", "").
			AddRow("2", "anne", "", "").
			AddRow("4", "aaron", "", ""))
	// anna is already a friend, stored with the caller on the friend_id side.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, friend_id FROM friendships")).
		WithArgs("9", "9").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "friend_id"}).AddRow("1", "9"))
	// aaron has a pending request addressed to the caller.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sender_id, receiver_id FROM friend_requests")).
		WithArgs("9", "9").
		WillReturnRows(sqlmock.NewRows([]string{"sender_id", "receiver_id"}).AddRow("4", "9"))

	got, err := d.SearchUsers(context.Background(), &Session{UserID: "9"}, "a")
	require.NoError(t, err)
	require.Equal(t, []models.ProfileSummary{{ID: "2", Username: "anne"}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSendFriendRequestToSelf(t *testing.T) {
	d, _ := newMockDirectory(t)

	err := d.SendFriendRequest(context.Background(), &Session{UserID: "9"}, "9")
	require.ErrorIs(t, err, ErrCannotFriendSelf)
}

func TestSendFriendRequestUnknownReceiver(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)")).
		WithArgs("2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := d.SendFriendRequest(context.Background(), &Session{UserID: "9"}, "2")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendFriendRequestAlreadyFriends(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)")).
		WithArgs("2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM friendships")).
		WithArgs("9", "2", "2", "9").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := d.SendFriendRequest(context.Background(), &Session{UserID: "9"}, "2")
	require.ErrorIs(t, err, ErrAlreadyFriends)
	require.True(t, IsConflict(err))
}

func TestSendFriendRequestPendingEitherDirection(t *testing.T) {
	for name, args := range map[string][]string{
		"caller sent":     {"9", "2"},
		"caller received": {"2", "9"},
	} {
		t.Run(name, func(t *testing.T) {
			d, mock := newMockDirectory(t)
			caller, other := args[0], args[1]

			mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)")).
				WithArgs(other).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM friendships")).
				WithArgs(caller, other, other, caller).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM friend_requests")).
				WithArgs(caller, other, other, caller).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

			err := d.SendFriendRequest(context.Background(), &Session{UserID: caller}, other)
			require.ErrorIs(t, err, ErrRequestAlreadyExists)
			require.EqualError(t, err, "friend request already exists")
		})
	}
}

func TestSendFriendRequestInsertsPending(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)")).
		WithArgs("2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM friendships")).
		WithArgs("9", "2", "2", "9").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM friend_requests")).
		WithArgs("9", "2", "2", "9").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO friend_requests")).
		WithArgs(sqlmock.AnyArg(), "9", "2", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := d.SendFriendRequest(context.Background(), &Session{UserID: "9"}, "2")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A lost check-then-act race surfaces as a duplicate key on the pending
// pair index and must map to the same conflict as the pre-check.
func TestSendFriendRequestDuplicateKeyRace(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)")).
		WithArgs("2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM friendships")).
		WithArgs("9", "2", "2", "9").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM friend_requests")).
		WithArgs("9", "2", "2", "9").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO friend_requests")).
		WithArgs(sqlmock.AnyArg(), "9", "2", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := d.SendFriendRequest(context.Background(), &Session{UserID: "9"}, "2")
	require.ErrorIs(t, err, ErrRequestAlreadyExists)
}

func TestPendingFriendRequests(t *testing.T) {
	d, mock := newMockDirectory(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.receiver_id = ? AND r.status = 'pending'")).
		WithArgs("9").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "sender_id", "receiver_id", "status", "created_at", "updated_at",
			"p_id", "username", "avatar", "fitness_goal",
		}).AddRow("r1", "2", "9", "pending", now, now, "2", "anne", "", "get stronger"))

	got, err := d.PendingFriendRequests(context.Background(), &Session{UserID: "9"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "r1", got[0].ID)
	require.Equal(t, "anne", got[0].Sender.Username)
	require.Equal(t, models.RequestStatusPending, got[0].Status)
}

func TestAcceptFriendRequestDelegatesToProcedure(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectExec(regexp.QuoteMeta("CALL accept_friend_request(?, ?)")).
		WithArgs("r1", "9").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, d.AcceptFriendRequest(context.Background(), &Session{UserID: "9"}, "r1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptFriendRequestNotFound(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectExec(regexp.QuoteMeta("CALL accept_friend_request(?, ?)")).
		WithArgs("missing", "9").
		WillReturnError(&mysql.MySQLError{Number: 1644, Message: "friend request not found"})

	err := d.AcceptFriendRequest(context.Background(), &Session{UserID: "9"}, "missing")
	require.ErrorIs(t, err, ErrRequestNotFound)
}

func TestDeclineFriendRequestRemoteFailure(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectExec(regexp.QuoteMeta("CALL decline_friend_request(?, ?)")).
		WithArgs("r1", "9").
		WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})

	err := d.DeclineFriendRequest(context.Background(), &Session{UserID: "9"}, "r1")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Contains(t, remote.Error(), "Lock wait timeout exceeded")
}

// Friends reads only the orientation where the caller is user_id;
// acceptance writes both rows, so that single read is complete.
func TestFriendsReadsOneOrientation(t *testing.T) {
	d, mock := newMockDirectory(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.user_id = ?")).
		WithArgs("9").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "friend_id", "created_at",
			"p_id", "username", "avatar", "fitness_goal",
		}).AddRow("f1", "9", "2", now, "2", "anne", "", ""))

	got, err := d.Friends(context.Background(), &Session{UserID: "9"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "9", got[0].UserID)
	require.Equal(t, "2", got[0].FriendID)
	require.Equal(t, "anne", got[0].Friend.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveFriendDelegatesToProcedure(t *testing.T) {
	d, mock := newMockDirectory(t)

	mock.ExpectExec(regexp.QuoteMeta("CALL remove_friendship(?, ?)")).
		WithArgs("9", "2").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, d.RemoveFriend(context.Background(), &Session{UserID: "9"}, "2"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendWorkoutHistory(t *testing.T) {
	d, mock := newMockDirectory(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM workout_history")).
		WithArgs("2", historyLimit).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "title", "description", "difficulty", "total_time",
			"warm_up", "cool_down", "exercises", "workout_type", "time_available",
			"mood", "muscle_focus", "equipment", "created_at",
		}).AddRow(
			"w1", "2", "Upper Body Blast", "Push day", "intermediate", "45 min",
			"5 min of arm circles", "", `[{"name":"Push-ups","sets":"3","reps":"12","instructions":"Keep your core tight."}]`,
			"strength", "45", "energized", "chest", "none", now,
		))

	got, err := d.FriendWorkoutHistory(context.Background(), &Session{UserID: "9"}, "2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Upper Body Blast", got[0].Plan.Title)
	require.Len(t, got[0].Plan.Exercises, 1)
	require.Equal(t, "Push-ups", got[0].Plan.Exercises[0].Name)
	require.Equal(t, "strength", got[0].Params.WorkoutType)
}

func TestOperationsRequireSession(t *testing.T) {
	d, _ := newMockDirectory(t)
	ctx := context.Background()

	require.ErrorIs(t, d.SendFriendRequest(ctx, nil, "2"), ErrUnauthenticated)
	require.ErrorIs(t, d.AcceptFriendRequest(ctx, nil, "r1"), ErrUnauthenticated)
	require.ErrorIs(t, d.DeclineFriendRequest(ctx, nil, "r1"), ErrUnauthenticated)
	require.ErrorIs(t, d.RemoveFriend(ctx, nil, "2"), ErrUnauthenticated)

	_, err := d.PendingFriendRequests(ctx, nil)
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = d.Friends(ctx, nil)
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = d.FriendWorkoutHistory(ctx, nil, "2")
	require.ErrorIs(t, err, ErrUnauthenticated)
}
