// Command newscast builds and publishes the daily news briefing video.
//
//	newscast run [--date YYYY-MM-DD] [--skip-upload] [--no-shorts]
//	newscast timeline script.yaml [--mode landscape|shorts] [--srt out.srt]
//	newscast history [--limit N]
//	newscast check
//	newscast config init|show|validate
//	newscast test-notify
package main
