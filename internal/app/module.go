package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/api/server"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/billinglog"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/chathub"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/content"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/identity"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/membership"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/messaging"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/plans"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/platform/db"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/platform/stripepay"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	stripepay.Module,
	billinglog.Module,
	membership.Module,
	identity.Module,
	messaging.Module,
	chathub.Module,
	plans.Module,
	content.Module,
)
