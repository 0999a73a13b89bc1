package database

import (
	"database/sql"
	"log"

	"fitlink/config"

	_ "github.com/go-sql-driver/mysql"
)

var DB *sql.DB

func Connect() error {
	var err error
	DB, err = sql.Open("mysql", config.Cfg.MysqlDSN)
	if err != nil {
		return err
	}

	if err = DB.Ping(); err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)

	log.Println("Database connected successfully")
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

func CreateTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id            VARCHAR(36) PRIMARY KEY,
			username      VARCHAR(50) NOT NULL,
			password      VARCHAR(255) NOT NULL,
			sex           VARCHAR(16) DEFAULT '',
			date_of_birth DATE NULL,
			weight        DECIMAL(6,2) NULL,
			weight_unit   VARCHAR(8) DEFAULT 'kg',
			height        DECIMAL(6,2) NULL,
			height_unit   VARCHAR(8) DEFAULT 'cm',
			fitness_goal  VARCHAR(500) DEFAULT '',
			avatar        VARCHAR(255) DEFAULT '',
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uk_username (username)
		)`,
		// pending_pair keys the unordered {sender, receiver} pair while a
		// request is pending; the unique index is the real duplicate guard,
		// client-side existence checks are early exits only.
		`CREATE TABLE IF NOT EXISTS friend_requests (
			id           VARCHAR(36) PRIMARY KEY,
			sender_id    VARCHAR(36) NOT NULL,
			receiver_id  VARCHAR(36) NOT NULL,
			status       ENUM('pending', 'accepted', 'declined') DEFAULT 'pending',
			pending_pair VARCHAR(73) AS (IF(status = 'pending',
				CONCAT(LEAST(sender_id, receiver_id), ':', GREATEST(sender_id, receiver_id)),
				NULL)) STORED,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uk_pending_pair (pending_pair),
			INDEX idx_receiver_status (receiver_id, status),
			INDEX idx_sender_status (sender_id, status)
		)`,
		`CREATE TABLE IF NOT EXISTS friendships (
			id         VARCHAR(36) PRIMARY KEY,
			user_id    VARCHAR(36) NOT NULL,
			friend_id  VARCHAR(36) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_edge (user_id, friend_id),
			INDEX idx_friend (friend_id)
		)`,
		`CREATE TABLE IF NOT EXISTS workout_history (
			id             VARCHAR(36) PRIMARY KEY,
			user_id        VARCHAR(36) NOT NULL,
			title          VARCHAR(200) NOT NULL,
			description    TEXT,
			difficulty     VARCHAR(32) DEFAULT '',
			total_time     VARCHAR(32) DEFAULT '',
			warm_up        TEXT,
			cool_down      TEXT,
			exercises      JSON NOT NULL,
			workout_type   VARCHAR(64) DEFAULT '',
			time_available VARCHAR(32) DEFAULT '',
			mood           VARCHAR(64) DEFAULT '',
			muscle_focus   VARCHAR(64) DEFAULT '',
			equipment      VARCHAR(255) DEFAULT '',
			created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_user_time (user_id, created_at)
		)`,
	}

	for _, table := range tables {
		if _, err := DB.Exec(table); err != nil {
			return err
		}
	}

	if err := createProcedures(); err != nil {
		return err
	}

	log.Println("Database tables created successfully")
	return nil
}

// createProcedures installs the stored procedures the friend workflow
// delegates to. Each procedure is the atomicity boundary: callers issue a
// single CALL and never compensate on partial failure.
func createProcedures() error {
	procedures := []struct {
		drop   string
		create string
	}{
		{
			drop: `DROP PROCEDURE IF EXISTS accept_friend_request`,
			create: `CREATE PROCEDURE accept_friend_request(IN p_request_id VARCHAR(36), IN p_receiver_id VARCHAR(36))
			BEGIN
				DECLARE v_sender VARCHAR(36) DEFAULT NULL;
				DECLARE EXIT HANDLER FOR SQLEXCEPTION
				BEGIN
					ROLLBACK;
					RESIGNAL;
				END;
				START TRANSACTION;
				SELECT sender_id INTO v_sender
					FROM friend_requests
					WHERE id = p_request_id AND receiver_id = p_receiver_id AND status = 'pending'
					FOR UPDATE;
				IF v_sender IS NULL THEN
					SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = 'friend request not found';
				END IF;
				UPDATE friend_requests SET status = 'accepted', updated_at = NOW() WHERE id = p_request_id;
				INSERT INTO friendships (id, user_id, friend_id, created_at)
					VALUES (UUID(), p_receiver_id, v_sender, NOW()), (UUID(), v_sender, p_receiver_id, NOW());
				COMMIT;
			END`,
		},
		{
			drop: `DROP PROCEDURE IF EXISTS decline_friend_request`,
			create: `CREATE PROCEDURE decline_friend_request(IN p_request_id VARCHAR(36), IN p_receiver_id VARCHAR(36))
			BEGIN
				UPDATE friend_requests SET status = 'declined', updated_at = NOW()
					WHERE id = p_request_id AND receiver_id = p_receiver_id AND status = 'pending';
				IF ROW_COUNT() = 0 THEN
					SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = 'friend request not found';
				END IF;
			END`,
		},
		{
			drop: `DROP PROCEDURE IF EXISTS remove_friendship`,
			create: `CREATE PROCEDURE remove_friendship(IN p_user_id VARCHAR(36), IN p_friend_id VARCHAR(36))
			BEGIN
				DECLARE EXIT HANDLER FOR SQLEXCEPTION
				BEGIN
					ROLLBACK;
					RESIGNAL;
				END;
				START TRANSACTION;
				DELETE FROM friendships
					WHERE (user_id = p_user_id AND friend_id = p_friend_id)
					   OR (user_id = p_friend_id AND friend_id = p_user_id);
				COMMIT;
			END`,
		},
	}

	for _, proc := range procedures {
		if _, err := DB.Exec(proc.drop); err != nil {
			return err
		}
		if _, err := DB.Exec(proc.create); err != nil {
			return err
		}
	}

	return nil
}
