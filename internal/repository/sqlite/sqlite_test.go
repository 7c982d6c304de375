package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/internal/repository/sqlite"
	"github.com/garnizeh/carematch/internal/repository/sqlite/sqlitetest"
	"github.com/garnizeh/carematch/pkg/models"
)

func strp(s string) *string { return &s }

func createAccount(t *testing.T, repo *sqlite.SQLiteRepo, email string) int64 {
	t.Helper()
	id, err := repo.CreateAccount(context.Background(), &models.Account{
		Email:        email,
		GivenName:    "Ana",
		Surname:      "Silva",
		PhoneNumber:  strp("+1 555 0100"),
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("CreateAccount(%s): %v", email, err)
	}
	return id
}

func createCaregiver(t *testing.T, repo *sqlite.SQLiteRepo, email string) int64 {
	t.Helper()
	id := createAccount(t, repo, email)
	rate := 12.5
	if err := repo.CreateCaregiver(context.Background(), &models.Caregiver{AccountID: id, CaregivingType: strp("babysitter"), HourlyRate: &rate}); err != nil {
		t.Fatalf("CreateCaregiver: %v", err)
	}
	return id
}

func createMember(t *testing.T, repo *sqlite.SQLiteRepo, email string) int64 {
	t.Helper()
	id := createAccount(t, repo, email)
	if err := repo.CreateMember(context.Background(), &models.Member{AccountID: id, HouseRules: strp("no smoking")}); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	return id
}

func TestAccountCRUD(t *testing.T) {
	_, repo := sqlitetest.Open(t)
	ctx := context.Background()

	if _, err := repo.CreateAccount(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil account")
	}

	got, err := repo.GetAccountByID(ctx, 9999)
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing account, got %#v, %v", got, err)
	}

	id := createAccount(t, repo, "ana@example.com")

	byEmail, err := repo.GetAccountByEmail(ctx, "ana@example.com")
	if err != nil || byEmail == nil {
		t.Fatalf("GetAccountByEmail: %#v, %v", byEmail, err)
	}
	if byEmail.ID != id || byEmail.PasswordHash != "hash" || byEmail.City != nil {
		t.Fatalf("unexpected account: %#v", byEmail)
	}

	if other, _ := repo.GetAccountByEmail(ctx, "ANA@example.com"); other != nil {
		t.Fatalf("email lookup should be exact, got %#v", other)
	}

	byEmail.City = strp("Lisbon")
	byEmail.GivenName = "Anna"
	if err := repo.UpdateAccount(ctx, byEmail); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	updated, _ := repo.GetAccountByID(ctx, id)
	if updated.GivenName != "Anna" || updated.City == nil || *updated.City != "Lisbon" {
		t.Fatalf("update not persisted: %#v", updated)
	}

	if err := repo.DeleteAccount(ctx, id); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if gone, _ := repo.GetAccountByID(ctx, id); gone != nil {
		t.Fatalf("expected account deleted")
	}
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	_, repo := sqlitetest.Open(t)
	createAccount(t, repo, "dup@example.com")

	_, err := repo.CreateAccount(context.Background(), &models.Account{Email: "dup@example.com", GivenName: "B", Surname: "C", PasswordHash: "h"})
	if !errors.Is(err, apperr.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCaregiverAndMemberProfiles(t *testing.T) {
	_, repo := sqlitetest.Open(t)
	ctx := context.Background()

	cg := createCaregiver(t, repo, "cg@example.com")
	mb := createMember(t, repo, "mb@example.com")

	c, err := repo.GetCaregiver(ctx, cg)
	if err != nil || c == nil {
		t.Fatalf("GetCaregiver: %#v, %v", c, err)
	}
	if c.Account == nil || c.Account.Email != "cg@example.com" {
		t.Fatalf("expected joined account, got %#v", c.Account)
	}
	if c.HourlyRate == nil || *c.HourlyRate != 12.5 {
		t.Fatalf("unexpected hourly rate: %v", c.HourlyRate)
	}

	if none, err := repo.GetCaregiver(ctx, mb); err != nil || none != nil {
		t.Fatalf("member must not resolve as caregiver: %#v, %v", none, err)
	}
	if none, err := repo.GetMember(ctx, cg); err != nil || none != nil {
		t.Fatalf("caregiver must not resolve as member: %#v, %v", none, err)
	}

	c.Gender = strp("female")
	c.HourlyRate = nil
	if err := repo.UpdateCaregiver(ctx, c); err != nil {
		t.Fatalf("UpdateCaregiver: %v", err)
	}
	c, _ = repo.GetCaregiver(ctx, cg)
	if c.Gender == nil || *c.Gender != "female" || c.HourlyRate != nil {
		t.Fatalf("caregiver update not persisted: %#v", c)
	}

	m, err := repo.GetMember(ctx, mb)
	if err != nil || m == nil || m.Account.Email != "mb@example.com" {
		t.Fatalf("GetMember: %#v, %v", m, err)
	}
	m.DependentDescription = strp("grandmother")
	if err := repo.UpdateMember(ctx, m); err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}

	caregivers, err := repo.ListCaregivers(ctx)
	if err != nil || len(caregivers) != 1 {
		t.Fatalf("ListCaregivers: %d, %v", len(caregivers), err)
	}
	members, err := repo.ListMembers(ctx)
	if err != nil || len(members) != 1 || members[0].DependentDescription == nil {
		t.Fatalf("ListMembers: %#v, %v", members, err)
	}
}

func TestAddress(t *testing.T) {
	_, repo := sqlitetest.Open(t)
	ctx := context.Background()
	mb := createMember(t, repo, "mb@example.com")

	if a, err := repo.GetAddress(ctx, mb); err != nil || a != nil {
		t.Fatalf("expected no address yet: %#v, %v", a, err)
	}

	addr := &models.Address{MemberID: mb, Street: strp("Main St"), Town: strp("Springfield")}
	if err := repo.CreateAddress(ctx, addr); err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}
	if err := repo.CreateAddress(ctx, addr); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict for second address, got %v", err)
	}

	addr.HouseNumber = strp("42")
	if err := repo.UpdateAddress(ctx, addr); err != nil {
		t.Fatalf("UpdateAddress: %v", err)
	}
	got, _ := repo.GetAddress(ctx, mb)
	if got == nil || got.HouseNumber == nil || *got.HouseNumber != "42" {
		t.Fatalf("address update not persisted: %#v", got)
	}
}

func TestJobsAndApplications(t *testing.T) {
	_, repo := sqlitetest.Open(t)
	ctx := context.Background()
	mb := createMember(t, repo, "mb@example.com")
	other := createMember(t, repo, "other@example.com")
	cg := createCaregiver(t, repo, "cg@example.com")

	job := &models.Job{MemberID: mb, RequiredCaregivingType: strp("elderly care")}
	id, err := repo.CreateJob(ctx, job)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.ID != id || job.DatePosted == "" {
		t.Fatalf("expected id and posting date set, got %#v", job)
	}
	if _, err := repo.CreateJob(ctx, &models.Job{MemberID: other}); err != nil {
		t.Fatalf("CreateJob other: %v", err)
	}

	all, _ := repo.ListJobs(ctx)
	mine, _ := repo.ListJobsByMember(ctx, mb)
	if len(all) != 2 || len(mine) != 1 || mine[0].ID != id {
		t.Fatalf("unexpected job listings: all=%d mine=%#v", len(all), mine)
	}

	job.OtherRequirements = strp("weekends")
	if err := repo.UpdateJob(ctx, job); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	got, _ := repo.GetJob(ctx, id)
	if got.OtherRequirements == nil || *got.OtherRequirements != "weekends" || got.MemberID != mb {
		t.Fatalf("job update not persisted: %#v", got)
	}

	app := &models.JobApplication{CaregiverID: cg, JobID: id}
	if err := repo.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if app.DateApplied == "" {
		t.Fatalf("expected date_applied set")
	}
	if err := repo.CreateApplication(ctx, &models.JobApplication{CaregiverID: cg, JobID: id}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate application, got %v", err)
	}

	byCaregiver, _ := repo.ListApplicationsByCaregiver(ctx, cg)
	if len(byCaregiver) != 1 || byCaregiver[0].JobID != id {
		t.Fatalf("unexpected applications by caregiver: %#v", byCaregiver)
	}

	forMember, err := repo.ListApplicationsForMember(ctx, mb)
	if err != nil || len(forMember) != 1 {
		t.Fatalf("ListApplicationsForMember: %#v, %v", forMember, err)
	}
	if forMember[0].Email != "cg@example.com" || forMember[0].Job.ID != id || forMember[0].CaregivingType == nil {
		t.Fatalf("unexpected joined application: %#v", forMember[0])
	}
	if none, _ := repo.ListApplicationsForMember(ctx, other); len(none) != 0 {
		t.Fatalf("other member should see no applications, got %d", len(none))
	}

	if err := repo.DeleteApplication(ctx, cg, id); err != nil {
		t.Fatalf("DeleteApplication: %v", err)
	}
	if a, _ := repo.GetApplication(ctx, cg, id); a != nil {
		t.Fatalf("expected application deleted")
	}

	if err := repo.DeleteJob(ctx, id); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	if j, _ := repo.GetJob(ctx, id); j != nil {
		t.Fatalf("expected job deleted")
	}
}

func TestAppointments(t *testing.T) {
	_, repo := sqlitetest.Open(t)
	ctx := context.Background()
	mb := createMember(t, repo, "mb@example.com")
	cg := createCaregiver(t, repo, "cg@example.com")

	hours := 4
	appt := &models.Appointment{CaregiverID: cg, MemberID: mb, AppointmentDate: strp("2026-11-02"), WorkHours: &hours}
	id, err := repo.CreateAppointment(ctx, appt)
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if appt.Status != models.DefaultAppointmentStatus {
		t.Fatalf("expected default status, got %q", appt.Status)
	}

	if err := repo.UpdateAppointmentStatus(ctx, id, "confirmed"); err != nil {
		t.Fatalf("UpdateAppointmentStatus: %v", err)
	}
	got, _ := repo.GetAppointment(ctx, id)
	if got == nil || got.Status != "confirmed" || got.WorkHours == nil || *got.WorkHours != 4 {
		t.Fatalf("unexpected appointment: %#v", got)
	}

	// no address yet: the view renders empty strings
	views, err := repo.ListAppointmentsByCaregiver(ctx, cg)
	if err != nil || len(views) != 1 {
		t.Fatalf("ListAppointmentsByCaregiver: %#v, %v", views, err)
	}
	v := views[0]
	if v.Member.Email != "mb@example.com" || v.Caregiver.PhoneNumber != "+1 555 0100" || v.MemberAddress.Street != "" {
		t.Fatalf("unexpected view: %#v", v)
	}

	if err := repo.CreateAddress(ctx, &models.Address{MemberID: mb, Town: strp("Porto")}); err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}
	views, _ = repo.ListAppointmentsByMember(ctx, mb)
	if len(views) != 1 || views[0].MemberAddress.Town != "Porto" {
		t.Fatalf("expected member address in view, got %#v", views)
	}
	if none, _ := repo.ListAppointmentsByMember(ctx, cg); len(none) != 0 {
		t.Fatalf("caregiver id must not match member appointments")
	}
}

func TestDeleteAccount_Cascades(t *testing.T) {
	_, repo := sqlitetest.Open(t)
	ctx := context.Background()
	mb := createMember(t, repo, "mb@example.com")
	cg := createCaregiver(t, repo, "cg@example.com")

	jobID, _ := repo.CreateJob(ctx, &models.Job{MemberID: mb})
	if err := repo.CreateApplication(ctx, &models.JobApplication{CaregiverID: cg, JobID: jobID}); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	apptID, _ := repo.CreateAppointment(ctx, &models.Appointment{CaregiverID: cg, MemberID: mb})
	if err := repo.CreateAddress(ctx, &models.Address{MemberID: mb}); err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}

	if err := repo.DeleteAccount(ctx, mb); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if m, _ := repo.GetMember(ctx, mb); m != nil {
		t.Fatalf("member profile should be gone")
	}
	if a, _ := repo.GetAddress(ctx, mb); a != nil {
		t.Fatalf("address should be gone")
	}
	if j, _ := repo.GetJob(ctx, jobID); j != nil {
		t.Fatalf("job should be gone")
	}
	if a, _ := repo.GetApplication(ctx, cg, jobID); a != nil {
		t.Fatalf("application should be gone")
	}
	if a, _ := repo.GetAppointment(ctx, apptID); a != nil {
		t.Fatalf("appointment should be gone")
	}
	if c, _ := repo.GetCaregiver(ctx, cg); c == nil {
		t.Fatalf("caregiver should survive")
	}
}

func TestRunInTx_RollsBackRepositoryCalls(t *testing.T) {
	_, repo := sqlitetest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := repo.CreateAccount(ctx, &models.Account{Email: "tx@example.com", GivenName: "T", Surname: "X", PasswordHash: "h"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if a, _ := repo.GetAccountByEmail(ctx, "tx@example.com"); a != nil {
		t.Fatalf("account should have been rolled back")
	}
}
