package watcher

var IsScratchExported = isScratch
