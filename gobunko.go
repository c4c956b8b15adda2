package gobunko

import (
	"github.com/gobunko/gobunko/pkg/api"
)

type Paginator = api.Paginator
type Options = api.Options
type Option = api.Option
type Backend = api.Backend
type PageInfo = api.PageInfo
type WritingMode = api.WritingMode
type Phase = api.Phase
type Effect = api.Effect
type TransitionEvent = api.TransitionEvent
type TransitionPhase = api.TransitionPhase
type Key = api.Key
type FurnitureContent = api.FurnitureContent
type Align = api.Align
type PageNumberFormat = api.PageNumberFormat
type FurnitureLine = api.FurnitureLine
type YieldFunc = api.YieldFunc
type Service = api.Service
type Geometry = api.Geometry
type Fragment = api.Fragment
type Logger = api.Logger
type Field = api.Field
type Level = api.Level

func New(opts ...Option) (*Paginator, error)             { return api.New(opts...) }
func NewWithOptions(options Options) (*Paginator, error) { return api.NewWithOptions(options) }
func DefaultOptions() Options                            { return api.DefaultOptions() }

var (
	WithWritingMode        = api.WithWritingMode
	WithPageSize           = api.WithPageSize
	WithPageGap            = api.WithPageGap
	WithPadding            = api.WithPadding
	WithFontSize           = api.WithFontSize
	WithLineHeight         = api.WithLineHeight
	WithRubyPitch          = api.WithRubyPitch
	WithBackend            = api.WithBackend
	WithFont               = api.WithFont
	WithMeasurer           = api.WithMeasurer
	WithTimeSlice          = api.WithTimeSlice
	WithMaxPages           = api.WithMaxPages
	WithYield              = api.WithYield
	WithClock              = api.WithClock
	WithTransitionEffect   = api.WithTransitionEffect
	WithTransitionDuration = api.WithTransitionDuration
	WithResizeDebounce     = api.WithResizeDebounce
	WithHeaderContent      = api.WithHeaderContent
	WithHeaderAlign        = api.WithHeaderAlign
	WithFooterContent      = api.WithFooterContent
	WithFooterAlign        = api.WithFooterAlign
	WithPageNumberFormat   = api.WithPageNumberFormat
	WithOnPage             = api.WithOnPage
	WithOnProgress         = api.WithOnProgress
	WithOnReady            = api.WithOnReady
	WithOnScroll           = api.WithOnScroll
	WithOnPageChanged      = api.WithOnPageChanged
	WithOnTransition       = api.WithOnTransition
	WithLogger             = api.WithLogger
	WithPageSizeBunko      = api.WithPageSizeBunko
	WithPageSizeShinsho    = api.WithPageSizeShinsho
	WithPageSizeB6         = api.WithPageSizeB6
)

var (
	ErrCancelled    = api.ErrCancelled
	ErrIterationCap = api.ErrIterationCap
	ErrDestroyed    = api.ErrDestroyed
)

var (
	ParseWritingMode      = api.ParseWritingMode
	ParseEffect           = api.ParseEffect
	ParseFurnitureContent = api.ParseFurnitureContent
	ParseAlign            = api.ParseAlign
	ParsePageNumberFormat = api.ParsePageNumberFormat
)

var (
	NopLogger     = api.NopLogger
	NewTextLogger = api.NewTextLogger
)

const (
	VerticalRL   = api.VerticalRL
	HorizontalTB = api.HorizontalTB

	PhaseIdle       = api.PhaseIdle
	PhasePaginating = api.PhasePaginating
	PhaseReady      = api.PhaseReady

	EffectNone  = api.EffectNone
	EffectFade  = api.EffectFade
	EffectBlur  = api.EffectBlur
	EffectSlide = api.EffectSlide

	TransitionHide   = api.TransitionHide
	TransitionSwap   = api.TransitionSwap
	TransitionReveal = api.TransitionReveal
	TransitionDone   = api.TransitionDone

	KeyArrowLeft  = api.KeyArrowLeft
	KeyArrowRight = api.KeyArrowRight
	KeyArrowUp    = api.KeyArrowUp
	KeyArrowDown  = api.KeyArrowDown
	KeyPageUp     = api.KeyPageUp
	KeyPageDown   = api.KeyPageDown
	KeyHome       = api.KeyHome
	KeySpace      = api.KeySpace

	FurnitureNone       = api.FurnitureNone
	FurnitureTitle      = api.FurnitureTitle
	FurniturePageNumber = api.FurniturePageNumber

	AlignLeft   = api.AlignLeft
	AlignCenter = api.AlignCenter
	AlignRight  = api.AlignRight

	NumberCurrent      = api.NumberCurrent
	NumberCurrentTotal = api.NumberCurrentTotal

	BackendGrid       = api.BackendGrid
	BackendPDFMetrics = api.BackendPDFMetrics
	BackendShaped     = api.BackendShaped

	LevelDebug = api.LevelDebug
	LevelInfo  = api.LevelInfo
	LevelWarn  = api.LevelWarn
	LevelError = api.LevelError

	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height
	PageSizeA6Width  = api.PageSizeA6Width
	PageSizeA6Height = api.PageSizeA6Height

	PageSizeB6Width       = api.PageSizeB6Width
	PageSizeB6Height      = api.PageSizeB6Height
	PageSizeShinshoWidth  = api.PageSizeShinshoWidth
	PageSizeShinshoHeight = api.PageSizeShinshoHeight
)
