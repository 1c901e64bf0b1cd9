// internal/jobs/scheduler.go
package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type DigestBuilder interface {
	BuildDailyDigest(since, until time.Time) (*services.DailyDigest, error)
}

type DigestSender interface {
	SendAdminDigest(recipients []string, digest *services.DailyDigest) error
}

type WarrantyExpirer interface {
	ExpireRegistrations(now time.Time) (int64, error)
}

type Scheduler struct {
	cron       *cron.Cron
	digests    DigestBuilder
	sender     DigestSender
	warranties WarrantyExpirer
	recipients []string
	now        func() time.Time
}

func NewScheduler(digests DigestBuilder, sender DigestSender, warranties WarrantyExpirer, recipients []string) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithParser(cronParser)),
		digests:    digests,
		sender:     sender,
		warranties: warranties,
		recipients: recipients,
		now:        time.Now,
	}
}

// Register adds the digest job on digestSpec and the nightly warranty expiry.
func (s *Scheduler) Register(digestSpec string) error {
	if _, err := s.cron.AddFunc(digestSpec, s.guard("admin_digest", s.RunDigest)); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", digestSpec, err)
	}
	if _, err := s.cron.AddFunc("@daily", s.guard("warranty_expiry", s.RunWarrantyExpiry)); err != nil {
		return fmt.Errorf("failed to schedule warranty expiry: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logrus.WithField("jobs", len(s.cron.Entries())).Info("Scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunDigest mails the last 24 hours of activity to the configured recipients.
func (s *Scheduler) RunDigest() error {
	if len(s.recipients) == 0 {
		return nil
	}

	until := s.now()
	digest, err := s.digests.BuildDailyDigest(until.Add(-24*time.Hour), until)
	if err != nil {
		return err
	}

	if digest.Empty() {
		logrus.Info("No storefront activity, skipping digest")
		return nil
	}

	if err := s.sender.SendAdminDigest(s.recipients, digest); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"leads":      digest.NewLeads,
		"feedback":   digest.NewFeedback,
		"warranties": digest.NewWarranties,
	}).Info("Admin digest sent")
	return nil
}

func (s *Scheduler) RunWarrantyExpiry() error {
	n, err := s.warranties.ExpireRegistrations(s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		logrus.WithField("count", n).Info("Expired warranty registrations")
	}
	return nil
}

func (s *Scheduler) guard(name string, job func() error) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithFields(logrus.Fields{"job": name, "panic": r}).Error("Job panicked")
			}
		}()
		if err := job(); err != nil {
			logrus.WithError(err).WithField("job", name).Error("Job failed")
		}
	}
}
