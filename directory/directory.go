// Package directory owns the friend-request and friendship lifecycle:
// exclusion-aware user search, the request state machine, and friendship
// listing and removal. Mutations that must be atomic (accept, decline,
// remove) delegate to stored procedures and perform no client-side
// compensation.
package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"fitlink/models"
	"fitlink/utils"
)

const (
	searchLimit  = 20
	historyLimit = 20
)

// Session is the capability an authenticated caller presents to every
// operation. Operations fail with ErrUnauthenticated when it is absent,
// so the component is testable without ambient auth state.
type Session struct {
	UserID string
}

func (s *Session) valid() bool {
	return s != nil && s.UserID != ""
}

type Directory struct {
	db *sql.DB
}

func New(db *sql.DB) *Directory {
	return &Directory{db: db}
}

// SearchUsers substring-matches usernames against all profiles except the
// caller, then drops anyone already friended with or in a pending
// negotiation with the caller, in either direction. The limit is applied
// before the exclusion filter, so fewer than the cap may return.
func (d *Directory) SearchUsers(ctx context.Context, sess *Session, query string) ([]models.ProfileSummary, error) {
	if !sess.valid() {
		return nil, ErrUnauthenticated
	}

	// username LIKE is case-insensitive under the utf8mb4 *_ci collation.
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, username, avatar, fitness_goal FROM profiles
		WHERE id != ? AND username LIKE ?
		LIMIT ?
	`, sess.UserID, "%"+query+"%", searchLimit)
	if err != nil {
		return nil, remoteErr("search users", err)
	}
	defer rows.Close()

	candidates := []models.ProfileSummary{}
	for rows.Next() {
		var p models.ProfileSummary
		if err := rows.Scan(&p.ID, &p.Username, &p.Avatar, &p.FitnessGoal); err != nil {
			return nil, remoteErr("search users", err)
		}
		candidates = append(candidates, p)
	}
	if err := rows.Err(); err != nil {
		return nil, remoteErr("search users", err)
	}

	excluded, err := d.connectedUserIDs(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	results := []models.ProfileSummary{}
	for _, p := range candidates {
		if _, ok := excluded[p.ID]; !ok {
			results = append(results, p)
		}
	}

	return results, nil
}

// connectedUserIDs returns every user the caller is friended with or has
// a pending request with, regardless of which side initiated.
func (d *Directory) connectedUserIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	excluded := make(map[string]struct{})

	rows, err := d.db.QueryContext(ctx, `
		SELECT user_id, friend_id FROM friendships
		WHERE user_id = ? OR friend_id = ?
	`, userID, userID)
	if err != nil {
		return nil, remoteErr("load friendships", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return nil, remoteErr("load friendships", err)
		}
		excluded[otherOf(userID, a, b)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, remoteErr("load friendships", err)
	}

	reqRows, err := d.db.QueryContext(ctx, `
		SELECT sender_id, receiver_id FROM friend_requests
		WHERE status = 'pending' AND (sender_id = ? OR receiver_id = ?)
	`, userID, userID)
	if err != nil {
		return nil, remoteErr("load pending requests", err)
	}
	defer reqRows.Close()

	for reqRows.Next() {
		var a, b string
		if err := reqRows.Scan(&a, &b); err != nil {
			return nil, remoteErr("load pending requests", err)
		}
		excluded[otherOf(userID, a, b)] = struct{}{}
	}
	if err := reqRows.Err(); err != nil {
		return nil, remoteErr("load pending requests", err)
	}

	return excluded, nil
}

func otherOf(self, a, b string) string {
	if a == self {
		return b
	}
	return a
}

// SendFriendRequest inserts a pending request from the caller to the
// receiver. The existence checks are early exits; the unique index on the
// pending pair is what actually prevents duplicates under a race.
func (d *Directory) SendFriendRequest(ctx context.Context, sess *Session, receiverID string) error {
	if !sess.valid() {
		return ErrUnauthenticated
	}
	if receiverID == sess.UserID {
		return ErrCannotFriendSelf
	}

	var exists bool
	err := d.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)", receiverID,
	).Scan(&exists)
	if err != nil {
		return remoteErr("check receiver", err)
	}
	if !exists {
		return ErrUserNotFound
	}

	err = d.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM friendships
			WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?))
	`, sess.UserID, receiverID, receiverID, sess.UserID).Scan(&exists)
	if err != nil {
		return remoteErr("check friendship", err)
	}
	if exists {
		return ErrAlreadyFriends
	}

	err = d.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM friend_requests
			WHERE status = 'pending'
			  AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)))
	`, sess.UserID, receiverID, receiverID, sess.UserID).Scan(&exists)
	if err != nil {
		return remoteErr("check pending request", err)
	}
	if exists {
		return ErrRequestAlreadyExists
	}

	now := time.Now()
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO friend_requests (id, sender_id, receiver_id, status, created_at, updated_at)
		VALUES (?, ?, ?, 'pending', ?, ?)
	`, utils.GenerateUUID(), sess.UserID, receiverID, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrRequestAlreadyExists
		}
		return remoteErr("insert friend request", err)
	}

	return nil
}

// PendingFriendRequests returns requests addressed to the caller, newest
// first, each with the sender's profile snapshot joined at read time.
func (d *Directory) PendingFriendRequests(ctx context.Context, sess *Session) ([]models.FriendRequestWithSender, error) {
	if !sess.valid() {
		return nil, ErrUnauthenticated
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT r.id, r.sender_id, r.receiver_id, r.status, r.created_at, r.updated_at,
		       p.id, p.username, p.avatar, p.fitness_goal
		FROM friend_requests r
		JOIN profiles p ON p.id = r.sender_id
		WHERE r.receiver_id = ? AND r.status = 'pending'
		ORDER BY r.created_at DESC
	`, sess.UserID)
	if err != nil {
		return nil, remoteErr("load friend requests", err)
	}
	defer rows.Close()

	requests := []models.FriendRequestWithSender{}
	for rows.Next() {
		var r models.FriendRequestWithSender
		if err := rows.Scan(
			&r.ID, &r.SenderID, &r.ReceiverID, &r.Status, &r.CreatedAt, &r.UpdatedAt,
			&r.Sender.ID, &r.Sender.Username, &r.Sender.Avatar, &r.Sender.FitnessGoal,
		); err != nil {
			return nil, remoteErr("load friend requests", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, remoteErr("load friend requests", err)
	}

	return requests, nil
}

// AcceptFriendRequest marks the request accepted and materializes both
// friendship orientations in one unit, inside the stored procedure.
func (d *Directory) AcceptFriendRequest(ctx context.Context, sess *Session, requestID string) error {
	if !sess.valid() {
		return ErrUnauthenticated
	}

	_, err := d.db.ExecContext(ctx, "CALL accept_friend_request(?, ?)", requestID, sess.UserID)
	if err != nil {
		return mapProcError("accept friend request", err)
	}
	return nil
}

func (d *Directory) DeclineFriendRequest(ctx context.Context, sess *Session, requestID string) error {
	if !sess.valid() {
		return ErrUnauthenticated
	}

	_, err := d.db.ExecContext(ctx, "CALL decline_friend_request(?, ?)", requestID, sess.UserID)
	if err != nil {
		return mapProcError("decline friend request", err)
	}
	return nil
}

// Friends lists edges where the caller is the stored user_id side, newest
// first. Acceptance writes both orientations, so this single-orientation
// read covers every friend.
func (d *Directory) Friends(ctx context.Context, sess *Session) ([]models.FriendshipWithProfile, error) {
	if !sess.valid() {
		return nil, ErrUnauthenticated
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT f.id, f.user_id, f.friend_id, f.created_at,
		       p.id, p.username, p.avatar, p.fitness_goal
		FROM friendships f
		JOIN profiles p ON p.id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC
	`, sess.UserID)
	if err != nil {
		return nil, remoteErr("load friends", err)
	}
	defer rows.Close()

	friends := []models.FriendshipWithProfile{}
	for rows.Next() {
		var f models.FriendshipWithProfile
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.FriendID, &f.CreatedAt,
			&f.Friend.ID, &f.Friend.Username, &f.Friend.Avatar, &f.Friend.FitnessGoal,
		); err != nil {
			return nil, remoteErr("load friends", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, remoteErr("load friends", err)
	}

	return friends, nil
}

// RemoveFriend deletes both orientations of the edge atomically via the
// stored procedure.
func (d *Directory) RemoveFriend(ctx context.Context, sess *Session, friendID string) error {
	if !sess.valid() {
		return ErrUnauthenticated
	}

	_, err := d.db.ExecContext(ctx, "CALL remove_friendship(?, ?)", sess.UserID, friendID)
	if err != nil {
		return mapProcError("remove friendship", err)
	}
	return nil
}

// FriendWorkoutHistory returns up to 20 of the given user's saved
// workouts, newest first. Access control beyond authentication is the
// store's concern, not this component's.
func (d *Directory) FriendWorkoutHistory(ctx context.Context, sess *Session, friendID string) ([]models.WorkoutHistoryEntry, error) {
	if !sess.valid() {
		return nil, ErrUnauthenticated
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, difficulty, total_time, warm_up, cool_down,
		       exercises, workout_type, time_available, mood, muscle_focus, equipment, created_at
		FROM workout_history
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, friendID, historyLimit)
	if err != nil {
		return nil, remoteErr("load workout history", err)
	}
	defer rows.Close()

	entries := []models.WorkoutHistoryEntry{}
	for rows.Next() {
		var e models.WorkoutHistoryEntry
		var exercises []byte
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Plan.Title, &e.Plan.Description, &e.Plan.Difficulty,
			&e.Plan.TotalTime, &e.Plan.WarmUp, &e.Plan.CoolDown, &exercises,
			&e.Params.WorkoutType, &e.Params.TimeAvailable, &e.Params.Mood,
			&e.Params.MuscleFocus, &e.Params.Equipment, &e.CreatedAt,
		); err != nil {
			return nil, remoteErr("load workout history", err)
		}
		if err := json.Unmarshal(exercises, &e.Plan.Exercises); err != nil {
			return nil, remoteErr("decode exercises", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, remoteErr("load workout history", err)
	}

	return entries, nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// mapProcError translates the SIGNAL a procedure raises for a missing
// request into the sentinel; everything else passes through as a remote
// failure.
func mapProcError(op string, err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1644 {
		return ErrRequestNotFound
	}
	return remoteErr(op, err)
}
