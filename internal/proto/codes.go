// Package proto defines the PTP/MTP wire vocabulary: operation, response,
// event, device-property, and object-format codes, plus the container type
// tag. Values are carried in full from the PIMA 15740 / MTP wire contract
// even where this responder only dispatches a subset of them, so that
// OperationNotSupported responses and GetDeviceInfo's advertised set can
// name real codes.
package proto

// OperationCode identifies the semantic of a Command container.
type OperationCode uint16

const (
	OpGetDeviceInfo           OperationCode = 0x1001
	OpOpenSession             OperationCode = 0x1002
	OpCloseSession            OperationCode = 0x1003
	OpGetStorageIds           OperationCode = 0x1004
	OpGetStorageInfo          OperationCode = 0x1005
	OpGetNumObjects           OperationCode = 0x1006
	OpGetObjectHandles        OperationCode = 0x1007
	OpGetObjectInfo           OperationCode = 0x1008
	OpGetObject               OperationCode = 0x1009
	OpGetThumb                OperationCode = 0x100A
	OpDeleteObject            OperationCode = 0x100B
	OpSendObjectInfo          OperationCode = 0x100C
	OpSendObject              OperationCode = 0x100D
	OpInitiateCapture         OperationCode = 0x100E
	OpFormatStore             OperationCode = 0x100F
	OpResetDevice             OperationCode = 0x1010
	OpSelfTest                OperationCode = 0x1011
	OpSetObjectProtection     OperationCode = 0x1012
	OpPowerDown               OperationCode = 0x1013
	OpGetDevicePropDesc       OperationCode = 0x1014
	OpGetDevicePropValue      OperationCode = 0x1015
	OpSetDevicePropValue      OperationCode = 0x1016
	OpResetDevicePropValue    OperationCode = 0x1017
	OpTerminateOpenCapture    OperationCode = 0x1018
	OpMoveObject              OperationCode = 0x1019
	OpCopyObject              OperationCode = 0x101A
	OpGetPartialObject        OperationCode = 0x101B
	OpInitiateOpenCapture     OperationCode = 0x101C
	OpGetObjectPropsSupported OperationCode = 0x9801
	OpGetObjectPropDesc       OperationCode = 0x9802
	OpGetObjectPropValue      OperationCode = 0x9803
	OpSetObjectPropValue      OperationCode = 0x9804
	OpGetObjectReferences     OperationCode = 0x9805
	OpSetObjectReferences     OperationCode = 0x9806
	OpSkip                    OperationCode = 0x9820
)

// Dispatched reports the operations this responder actually handles. This
// set must exactly match what GetDeviceInfo advertises; the two are kept in
// sync deliberately (see internal/ops.SupportedOperations).
var Dispatched = []OperationCode{
	OpGetDeviceInfo,
	OpOpenSession,
	OpCloseSession,
	OpGetStorageIds,
	OpGetStorageInfo,
	OpGetObjectHandles,
	OpGetObjectInfo,
	OpGetObject,
	OpGetDevicePropValue,
}

// ResponseCode identifies the semantic of a Response container.
type ResponseCode uint16

const (
	RespUndefined                               ResponseCode = 0x2000
	RespOK                                       ResponseCode = 0x2001
	RespGeneralError                             ResponseCode = 0x2002
	RespSessionNotOpen                           ResponseCode = 0x2003
	RespInvalidTransactionID                     ResponseCode = 0x2004
	RespOperationNotSupported                    ResponseCode = 0x2005
	RespParameterNotSupported                    ResponseCode = 0x2006
	RespIncompleteTransfer                       ResponseCode = 0x2007
	RespInvalidStorageID                         ResponseCode = 0x2008
	RespInvalidObjectHandle                      ResponseCode = 0x2009
	RespDevicePropNotSupported                   ResponseCode = 0x200A
	RespInvalidObjectFormatCode                  ResponseCode = 0x200B
	RespStoreFull                                ResponseCode = 0x200C
	RespObjectWriteProtected                     ResponseCode = 0x200D
	RespStoreReadOnly                            ResponseCode = 0x200E
	RespAccessDenied                             ResponseCode = 0x200F
	RespNoThumbnailPresent                       ResponseCode = 0x2010
	RespSelfTestFailed                           ResponseCode = 0x2011
	RespPartialDeletion                          ResponseCode = 0x2012
	RespStoreNotAvailable                        ResponseCode = 0x2013
	RespSpecificationByFormatUnsupported         ResponseCode = 0x2014
	RespNoValidObjectInfo                        ResponseCode = 0x2015
	RespInvalidCodeFormat                        ResponseCode = 0x2016
	RespUnknownVendorCode                        ResponseCode = 0x2017
	RespCaptureAlreadyTerminated                 ResponseCode = 0x2018
	RespDeviceBusy                               ResponseCode = 0x2019
	RespInvalidParentObject                      ResponseCode = 0x201A
	RespInvalidDevicePropFormat                  ResponseCode = 0x201B
	RespInvalidDevicePropValue                   ResponseCode = 0x201C
	RespInvalidParameter                         ResponseCode = 0x201D
	RespSessionAlreadyOpen                       ResponseCode = 0x201E
	RespTransactionCancelled                     ResponseCode = 0x201F
	RespSpecificationOfDestinationUnsupported    ResponseCode = 0x2020
	RespInvalidObjectPropCode                    ResponseCode = 0xA801
	RespInvalidObjectPropFormat                  ResponseCode = 0xA802
	RespInvalidObjectPropValue                   ResponseCode = 0xA803
	RespInvalidObjectReference                   ResponseCode = 0xA804
	RespGroupNotSupported                        ResponseCode = 0xA805
	RespInvalidDataset                           ResponseCode = 0xA806
	RespSpecificationByGroupUnsupported          ResponseCode = 0xA807
	RespSpecificationByDepthUnsupported          ResponseCode = 0xA808
	RespObjectTooLarge                           ResponseCode = 0xA809
	RespObjectPropNotSupported                   ResponseCode = 0xA80A
)

// EventCode identifies an asynchronous notification on the interrupt pipe.
// This responder never emits one (see spec Non-goals) but the vocabulary is
// carried so the ContainerType.Event case has real codes to reference.
type EventCode uint16

const (
	EventUndefined                 EventCode = 0x4000
	EventCancelTransaction         EventCode = 0x4001
	EventObjectAdded               EventCode = 0x4002
	EventObjectRemoved             EventCode = 0x4003
	EventStoreAdded                EventCode = 0x4004
	EventStoreRemoved              EventCode = 0x4005
	EventDevicePropChanged         EventCode = 0x4006
	EventObjectInfoChanged         EventCode = 0x4007
	EventDeviceInfoChanged         EventCode = 0x4008
	EventRequestObjectTransfer     EventCode = 0x4009
	EventStoreFull                 EventCode = 0x400A
	EventDeviceReset               EventCode = 0x400B
	EventStorageInfoChanged        EventCode = 0x400C
	EventCaptureComplete           EventCode = 0x400D
	EventUnreportedStatus          EventCode = 0x400E
	EventObjectPropChanged         EventCode = 0xC801
	EventObjectPropDescChanged     EventCode = 0xC802
	EventObjectReferencesChanged   EventCode = 0xC803
)

// DevicePropertyCode identifies a device property queried by
// GetDevicePropValue/GetDevicePropDesc.
type DevicePropertyCode uint16

const (
	PropUndefined                     DevicePropertyCode = 0x5000
	PropBatteryLevel                  DevicePropertyCode = 0x5001
	PropFunctionalMode                DevicePropertyCode = 0x5002
	PropImageSize                     DevicePropertyCode = 0x5003
	PropCompressionSetting            DevicePropertyCode = 0x5004
	PropWhiteBalance                  DevicePropertyCode = 0x5005
	PropRGBGain                       DevicePropertyCode = 0x5006
	PropFNumber                       DevicePropertyCode = 0x5007
	PropFocalLength                   DevicePropertyCode = 0x5008
	PropFocusDistance                 DevicePropertyCode = 0x5009
	PropFocusMode                     DevicePropertyCode = 0x500A
	PropExposureMeteringMode          DevicePropertyCode = 0x500B
	PropFlashMode                     DevicePropertyCode = 0x500C
	PropExposureTime                  DevicePropertyCode = 0x500D
	PropExposureProgramMode           DevicePropertyCode = 0x500E
	PropExposureIndex                 DevicePropertyCode = 0x500F
	PropExposureBiasCompensation      DevicePropertyCode = 0x5010
	PropDateTime                      DevicePropertyCode = 0x5011
	PropCaptureDelay                  DevicePropertyCode = 0x5012
	PropStillCaptureMode              DevicePropertyCode = 0x5013
	PropContrast                      DevicePropertyCode = 0x5014
	PropSharpness                     DevicePropertyCode = 0x5015
	PropDigitalZoom                   DevicePropertyCode = 0x5016
	PropEffectMode                    DevicePropertyCode = 0x5017
	PropBurstNumber                   DevicePropertyCode = 0x5018
	PropBurstInterval                 DevicePropertyCode = 0x5019
	PropTimelapseNumber               DevicePropertyCode = 0x501A
	PropTimelapseInterval             DevicePropertyCode = 0x501B
	PropFocusMeteringMode             DevicePropertyCode = 0x501C
	PropUploadURL                     DevicePropertyCode = 0x501D
	PropArtist                        DevicePropertyCode = 0x501E
	PropCopyrightInfo                 DevicePropertyCode = 0x501F
	PropSynchronizationPartner        DevicePropertyCode = 0xD401
	PropDeviceFriendlyName            DevicePropertyCode = 0xD402
	PropVolume                        DevicePropertyCode = 0xD403
	PropSupportedFormatsOrdered       DevicePropertyCode = 0xD404
	PropDeviceIcon                    DevicePropertyCode = 0xD405
	PropPlaybackRate                  DevicePropertyCode = 0xD406
	PropPlaybackObject                DevicePropertyCode = 0xD407
	PropPlaybackContainerIndex        DevicePropertyCode = 0xD408
	PropSessionInitiatorVersionInfo   DevicePropertyCode = 0xD409
	PropPerceivedDeviceType           DevicePropertyCode = 0xD40A
)

// ObjectFormatCode identifies the format of an object. Only the two values
// this responder ever reports are named; MTP defines many more.
type ObjectFormatCode uint16

const (
	FormatUndefined   ObjectFormatCode = 0x3000
	FormatAssociation ObjectFormatCode = 0x3001
)

// ContainerType is the header.type tag of a container.
type ContainerType uint16

const (
	ContainerTypeUndefined ContainerType = 0
	ContainerTypeCommand   ContainerType = 1
	ContainerTypeData      ContainerType = 2
	ContainerTypeResponse  ContainerType = 3
	ContainerTypeEvent     ContainerType = 4
)
