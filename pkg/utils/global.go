package utils

//MaskConfidenceThreshold is the minimal confidence (exclusive) for a mask pixel to belong to its subject
const MaskConfidenceThreshold = 0.5

//OverlayAlpha is the alpha of the team color painted above a subject's mask
const OverlayAlpha = 150

//DefaultLocale is the locale used when caller did not ask for one (or asked for an unknown one)
const DefaultLocale = "en"

//ProcessedImagePrefix is the prefix of every overlay artifact file name
const ProcessedImagePrefix = "processed_image_"

//ProcessedImageExt is the extension of every overlay artifact file name
const ProcessedImageExt = ".png"

//SegmenterEOF is the line the segmentation process prints after its last subject
const SegmenterEOF = "EOF"

//SupportedImageExts is a list of upload extensions the preprocessor knows to decode
var SupportedImageExts = []string{".jpg", ".jpeg", ".png"}
