// internal/jobs/scheduler_test.go
package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
)

type fakeDigests struct {
	digest      *services.DailyDigest
	err         error
	since, till time.Time
}

func (f *fakeDigests) BuildDailyDigest(since, until time.Time) (*services.DailyDigest, error) {
	f.since, f.till = since, until
	return f.digest, f.err
}

type fakeSender struct {
	recipients []string
	digests    []*services.DailyDigest
}

func (f *fakeSender) SendAdminDigest(recipients []string, digest *services.DailyDigest) error {
	f.recipients = recipients
	f.digests = append(f.digests, digest)
	return nil
}

type fakeExpirer struct {
	calls []time.Time
	n     int64
}

func (f *fakeExpirer) ExpireRegistrations(now time.Time) (int64, error) {
	f.calls = append(f.calls, now)
	return f.n, nil
}

func TestRunDigest(t *testing.T) {
	now := time.Date(2024, 6, 2, 7, 0, 0, 0, time.UTC)
	digests := &fakeDigests{digest: &services.DailyDigest{NewLeads: 2}}
	sender := &fakeSender{}

	s := NewScheduler(digests, sender, &fakeExpirer{}, []string{"ops@example.com"})
	s.now = func() time.Time { return now }

	require.NoError(t, s.RunDigest())
	assert.Equal(t, now.Add(-24*time.Hour), digests.since)
	assert.Equal(t, now, digests.till)
	assert.Equal(t, []string{"ops@example.com"}, sender.recipients)
	assert.Len(t, sender.digests, 1)
}

func TestRunDigestSkips(t *testing.T) {
	t.Run("no recipients", func(t *testing.T) {
		digests := &fakeDigests{digest: &services.DailyDigest{NewLeads: 1}}
		sender := &fakeSender{}

		require.NoError(t, NewScheduler(digests, sender, &fakeExpirer{}, nil).RunDigest())
		assert.Empty(t, sender.digests)
		assert.True(t, digests.since.IsZero(), "digest is not built")
	})

	t.Run("nothing happened", func(t *testing.T) {
		sender := &fakeSender{}
		s := NewScheduler(&fakeDigests{digest: &services.DailyDigest{}}, sender, &fakeExpirer{}, []string{"ops@example.com"})

		require.NoError(t, s.RunDigest())
		assert.Empty(t, sender.digests)
	})

	t.Run("build error", func(t *testing.T) {
		s := NewScheduler(&fakeDigests{err: errors.New("db down")}, &fakeSender{}, &fakeExpirer{}, []string{"ops@example.com"})
		assert.Error(t, s.RunDigest())
	})
}

func TestRunWarrantyExpiry(t *testing.T) {
	expirer := &fakeExpirer{n: 3}
	s := NewScheduler(&fakeDigests{}, &fakeSender{}, expirer, nil)

	require.NoError(t, s.RunWarrantyExpiry())
	assert.Len(t, expirer.calls, 1)
}

func TestRegister(t *testing.T) {
	s := NewScheduler(&fakeDigests{}, &fakeSender{}, &fakeExpirer{}, nil)

	require.NoError(t, s.Register("0 7 * * *"))
	assert.Len(t, s.cron.Entries(), 2)

	assert.Error(t, NewScheduler(&fakeDigests{}, &fakeSender{}, &fakeExpirer{}, nil).Register("every morning"))
}

func TestGuardRecoversPanics(t *testing.T) {
	s := NewScheduler(&fakeDigests{}, &fakeSender{}, &fakeExpirer{}, nil)

	assert.NotPanics(t, s.guard("boom", func() error { panic("boom") }))
	assert.NotPanics(t, s.guard("fail", func() error { return errors.New("fail") }))
}
