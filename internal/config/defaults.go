package config

const (
	defaultOutputDir           = "~/.local/share/newscast/output"
	defaultLogDir              = "~/.local/share/newscast/logs"
	defaultStateDir            = "~/.local/share/newscast/state"
	defaultNewsLocale          = "KR:ko"
	defaultNewsLanguage        = "ko"
	defaultNewsRegion          = "KR"
	defaultNewsPerTopic        = 2
	defaultNewsRequestDelayMS  = 200
	defaultNewsFeedBaseURL     = "https://news.google.com/rss/search"
	defaultNewsTimeoutSeconds  = 20
	defaultTitleSimilarity     = 0.8
	defaultLLMBaseURL          = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel            = "gpt-5"
	defaultLLMTemperature      = 0.3
	defaultLLMTimeoutSeconds   = 90
	defaultTTSBaseURL          = "https://api.openai.com/v1/audio/speech"
	defaultTTSModel            = "gpt-4o-mini-tts"
	defaultTTSVoice            = "alloy"
	defaultTTSTimeoutSeconds   = 120
	defaultTTSRetries          = 1
	defaultGapSeconds          = 0.25
	defaultEstimatorUnit       = "word"
	defaultSecondsPerWord      = 0.5
	defaultSecondsPerChar      = 0.1
	defaultMinSegmentSeconds   = 1.0
	defaultIntroTemplate       = "안녕하세요. {date} 주요 뉴스를 3분 안에 요약해 드립니다."
	defaultItemTemplate        = "{index}번 뉴스. {bullet} 해설: {explain}"
	defaultOutroTemplate       = "시청해 주셔서 감사합니다. 내일 다시 뵙겠습니다."
	defaultBookendHeadline     = "뉴스 브리핑"
	defaultCaptionSource       = "narration"
	defaultCaptionGranularity  = "segment"
	defaultResolution          = "1920x1080"
	defaultShortsResolution    = "1080x1920"
	defaultFPS                 = 30
	defaultTitlePrefix         = "오늘의 뉴스 요약"
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultMinDisplaySeconds   = 2.0
	defaultMaxDisplaySeconds   = 8.0
	defaultThumbnailWidth      = 1280
	defaultThumbnailHeight     = 720
	defaultThumbnailTitle      = "오늘의 뉴스 요약"
	defaultYouTubeTokenFile    = "~/.config/newscast/youtube_token.json"
	defaultYouTubePrivacy      = "public"
	defaultShortsPrivacy       = "unlisted"
	defaultYouTubeCategoryID   = "25"
	defaultPlaylistPrefix      = "뉴스 - "
	defaultPlaylistDescription = "자동 생성된 주제별 재생목록"
	defaultYouTubeLanguage     = "ko"
	defaultYouTubeTimeout      = 900
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultMinFreeGiB          = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			StateDir:   defaultStateDir,
			MinFreeGiB: defaultMinFreeGiB,
		},
		News: News{
			Topics:          []string{"경제", "IT", "국내"},
			Locale:          defaultNewsLocale,
			PerTopic:        defaultNewsPerTopic,
			RequestDelayMS:  defaultNewsRequestDelayMS,
			FeedBaseURL:     defaultNewsFeedBaseURL,
			TimeoutSeconds:  defaultNewsTimeoutSeconds,
			TitleSimilarity: defaultTitleSimilarity,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Temperature:    defaultLLMTemperature,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		TTS: TTS{
			BaseURL:        defaultTTSBaseURL,
			Model:          defaultTTSModel,
			Voice:          defaultTTSVoice,
			TimeoutSeconds: defaultTTSTimeoutSeconds,
			Retries:        defaultTTSRetries,
		},
		Narration: Narration{
			GapSeconds:         defaultGapSeconds,
			EstimatorUnit:      defaultEstimatorUnit,
			SecondsPerUnit:     defaultSecondsPerWord,
			MinSeconds:         defaultMinSegmentSeconds,
			IntroTemplate:      defaultIntroTemplate,
			ItemTemplate:       defaultItemTemplate,
			OutroTemplate:      defaultOutroTemplate,
			BookendHeadline:    defaultBookendHeadline,
			CaptionSource:      defaultCaptionSource,
			CaptionGranularity: defaultCaptionGranularity,
		},
		Video: Video{
			Resolution:       defaultResolution,
			ShortsResolution: defaultShortsResolution,
			ShortsEnabled:    true,
			FPS:              defaultFPS,
			TitlePrefix:      defaultTitlePrefix,
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
		},
		Render: Render{
			MinDisplaySeconds: defaultMinDisplaySeconds,
			MaxDisplaySeconds: defaultMaxDisplaySeconds,
		},
		Thumbnail: Thumbnail{
			Width:  defaultThumbnailWidth,
			Height: defaultThumbnailHeight,
			Title:  defaultThumbnailTitle,
		},
		YouTube: YouTube{
			TokenFile:           defaultYouTubeTokenFile,
			Privacy:             defaultYouTubePrivacy,
			ShortsPrivacy:       defaultShortsPrivacy,
			Tags:                []string{"뉴스", "요약", "브리핑", "한국"},
			ShortsTags:          []string{"뉴스", "요약", "브리핑", "shorts"},
			CategoryID:          defaultYouTubeCategoryID,
			PlaylistPrefix:      defaultPlaylistPrefix,
			PlaylistDescription: defaultPlaylistDescription,
			Language:            defaultYouTubeLanguage,
			TimeoutSeconds:      defaultYouTubeTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
