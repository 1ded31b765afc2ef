package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"feedback-tool-backend/model"
	"feedback-tool-backend/store"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrUnsupportedDialect is returned by provisioning steps that only exist for Postgres.
var ErrUnsupportedDialect = errors.New("operation requires a postgres database")

const createFunctionsSQL = `
CREATE OR REPLACE FUNCTION create_user_with_profile(
  user_email TEXT,
  user_password TEXT,
  user_full_name TEXT,
  user_role TEXT,
  user_location TEXT
) RETURNS UUID AS $$
DECLARE
  new_user_id UUID;
BEGIN
  INSERT INTO auth.users (
    instance_id, id, aud, role, email, encrypted_password,
    email_confirmed_at, recovery_sent_at, last_sign_in_at,
    raw_app_meta_data, raw_user_meta_data, created_at, updated_at,
    confirmation_token, email_change, email_change_token_new, recovery_token
  ) VALUES (
    '00000000-0000-0000-0000-000000000000', gen_random_uuid(), 'authenticated', 'authenticated',
    user_email, crypt(user_password, gen_salt('bf')),
    now(), now(), now(),
    '{"provider":"email","providers":["email"]}',
    json_build_object('full_name', user_full_name, 'role', user_role, 'location', user_location),
    now(), now(), '', '', '', ''
  )
  RETURNING id INTO new_user_id;

  UPDATE public.profiles
  SET role = user_role, location = user_location
  WHERE id = new_user_id;

  RETURN new_user_id;
END;
$$ LANGUAGE plpgsql SECURITY DEFINER;

CREATE OR REPLACE FUNCTION exec_sql(sql_string TEXT) RETURNS VOID AS $$
BEGIN
  EXECUTE sql_string;
END;
$$ LANGUAGE plpgsql SECURITY DEFINER;
`

const setupRelationsSQL = `
ALTER TABLE IF EXISTS public.feedback
  DROP CONSTRAINT IF EXISTS feedback_sender_id_fkey,
  DROP CONSTRAINT IF EXISTS feedback_receiver_id_fkey;

ALTER TABLE public.feedback
  ADD CONSTRAINT feedback_sender_id_fkey
  FOREIGN KEY (sender_id) REFERENCES public.profiles(id) ON DELETE CASCADE;

ALTER TABLE public.feedback
  ADD CONSTRAINT feedback_receiver_id_fkey
  FOREIGN KEY (receiver_id) REFERENCES public.profiles(id) ON DELETE CASCADE;
`

const setupTriggersSQL = `
CREATE OR REPLACE FUNCTION public.handle_new_user()
RETURNS TRIGGER AS $$
BEGIN
  INSERT INTO public.profiles (id, full_name, role, location, avatar_url, created_at, updated_at)
  VALUES (
    NEW.id,
    NEW.raw_user_meta_data->>'full_name',
    NEW.raw_user_meta_data->>'role',
    NEW.raw_user_meta_data->>'location',
    NEW.raw_user_meta_data->>'avatar_url',
    NOW(),
    NOW()
  );
  RETURN NEW;
END;
$$ LANGUAGE plpgsql SECURITY DEFINER;

DROP TRIGGER IF EXISTS on_auth_user_created ON auth.users;

CREATE TRIGGER on_auth_user_created
  AFTER INSERT ON auth.users
  FOR EACH ROW EXECUTE FUNCTION public.handle_new_user();
`

// RepairResults reports what RepairProfiles did for each account.
type RepairResults struct {
	Updated int      `json:"updated"`
	Errors  int      `json:"errors"`
	Details []string `json:"details"`
}

// MaintenanceService provisions database-side objects and repairs profiles.
// Every operation can be re-run safely.
type MaintenanceService struct {
	db        *gorm.DB
	authUsers store.AuthUserStore
	profiles  store.ProfileStore
}

func NewMaintenanceService(db *gorm.DB, authUsers store.AuthUserStore, profiles store.ProfileStore) *MaintenanceService {
	return &MaintenanceService{db: db, authUsers: authUsers, profiles: profiles}
}

// Migrate creates or updates the application tables.
func (s *MaintenanceService) Migrate() error {
	if err := s.db.AutoMigrate(&model.Profile{}, &model.Feedback{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CreateFunctions installs create_user_with_profile and exec_sql.
func (s *MaintenanceService) CreateFunctions(ctx context.Context) error {
	return s.execPostgres(ctx, "create functions", createFunctionsSQL)
}

// SetupRelations (re)creates the foreign keys from feedback to profiles.
func (s *MaintenanceService) SetupRelations(ctx context.Context) error {
	return s.execPostgres(ctx, "setup relations", setupRelationsSQL)
}

// SetupTriggers installs the trigger that creates a profile for each new account.
func (s *MaintenanceService) SetupTriggers(ctx context.Context) error {
	return s.execPostgres(ctx, "setup triggers", setupTriggersSQL)
}

func (s *MaintenanceService) execPostgres(ctx context.Context, step, sql string) error {
	if s.db.Dialector.Name() != "postgres" {
		return fmt.Errorf("%s: %w", step, ErrUnsupportedDialect)
	}
	if err := s.db.WithContext(ctx).Exec(sql).Error; err != nil {
		log.WithError(err).WithField("step", step).Error("Error provisioning database")
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

// RepairProfiles copies role, location and full name from account metadata onto
// profiles. Accounts without role or location metadata are left alone.
func (s *MaintenanceService) RepairProfiles(ctx context.Context) (*RepairResults, error) {
	users, err := s.authUsers.ListAuthUsers(ctx)
	if err != nil {
		log.WithError(err).Error("Error fetching auth users")
		return nil, err
	}

	results := &RepairResults{Details: []string{}}
	for _, u := range users {
		meta, ok := parseMetadata(u)
		if !ok || (meta.Role == "" && meta.Location == "") {
			results.Details = append(results.Details, fmt.Sprintf("No metadata found for %s", u.Email))
			continue
		}

		if err := s.profiles.UpdateMetadata(ctx, u.ID, meta); err != nil {
			results.Errors++
			results.Details = append(results.Details, fmt.Sprintf("Error updating profile for %s: %v", u.Email, err))
			continue
		}
		results.Updated++
		results.Details = append(results.Details, fmt.Sprintf("Updated profile for %s", u.Email))
	}

	log.WithFields(log.Fields{"updated": results.Updated, "errors": results.Errors}).Info("Profile repair finished")
	return results, nil
}

func parseMetadata(u model.AuthUser) (model.UserMetadata, bool) {
	var meta model.UserMetadata
	if len(u.RawUserMetaData) == 0 {
		return meta, false
	}
	if err := json.Unmarshal(u.RawUserMetaData, &meta); err != nil {
		log.WithError(err).WithField("user_id", u.ID).Warn("Unreadable user metadata")
		return meta, false
	}
	return meta, true
}
