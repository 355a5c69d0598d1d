package wodify

// Operation is one named logical call against the wodify api, it maps to a
// discovered endpoint path and api version token.
type Operation string

const (
	OP_LOGIN                    Operation = "Login"
	OP_LOCATIONS_PROGRAMS       Operation = "LocationsPrograms"
	OP_GET_CLASSES_ATTENDANCE   Operation = "GetClassesAttendance"
	OP_GET_CLASSES              Operation = "GetClasses"
	OP_GET_ALL_WORKOUT_DATA     Operation = "GetAllWorkoutData"
	OP_GET_CLASS_ACCESSES       Operation = "GetClassAccesses"
	OP_CREATE_CLASS_RESERVATION Operation = "CreateClassReservation"
	OP_SIGN_IN_CLASS            Operation = "SignInClass"
	OP_CANCEL_CLASS_RESERVATION Operation = "CancelClassReservation"
	OP_GET_CUSTOMER_DATE_TIME   Operation = "GetCustomerDateTime"
)

// Operations lists every operation the resolver must find an endpoint for.
var Operations = []Operation{
	OP_LOGIN,
	OP_LOCATIONS_PROGRAMS,
	OP_GET_CLASSES_ATTENDANCE,
	OP_GET_CLASSES,
	OP_GET_ALL_WORKOUT_DATA,
	OP_GET_CLASS_ACCESSES,
	OP_CREATE_CLASS_RESERVATION,
	OP_SIGN_IN_CLASS,
	OP_CANCEL_CLASS_RESERVATION,
	OP_GET_CUSTOMER_DATE_TIME,
}

// endpointPaths are relative to the base url.
var endpointPaths = map[Operation]string{
	OP_LOGIN:                    "screenservices/WodifyClient/ActionDo_Login",
	OP_LOCATIONS_PROGRAMS:       "screenservices/WodifyClient_CS/ActionSyncLocationsPrograms",
	OP_GET_CLASSES_ATTENDANCE:   "screenservices/WodifyClient_Class/Classes/Attendance/DataActionGetClasses",
	OP_GET_CLASSES:              "screenservices/WodifyClient_DataFetch_WB/Schedule_OS/GetClassList_ForClient_WithReservationCounts_WB/DataActionGetClassList_ForClient_WithReservationCounts",
	OP_GET_ALL_WORKOUT_DATA:     "screenservices/WodifyClient_DataFetch_WB/WOD_Flow/GetAllWorkoutData_WB/DataActionGetAllWorkoutData",
	OP_GET_CLASS_ACCESSES:       "screenservices/WodifyClient_DataFetch_WB/Schedule_OS/GetClassListAccesses_WB/DataActionGetClassListAccesses",
	OP_CREATE_CLASS_RESERVATION: "screenservices/WodifyClient_Class/Classes/Class/ServiceAPICreateClassReservation",
	OP_SIGN_IN_CLASS:            "screenservices/WodifyClient_Class/Classes/Class/ServiceAPISignInClass_Mobile",
	OP_CANCEL_CLASS_RESERVATION: "screenservices/WodifyClient_Class/Classes/Class/ServiceAPICancelClassReservation",
	OP_GET_CUSTOMER_DATE_TIME:   "screenservices/WodifyClient_DataFetch_WB/Customer_OS/GetCustomerDateTime_WB/DataActionGetCustomerDateTime",
}

// scriptBundles are the client bundles (relative to <base>/scripts/) that contain the
// endpoint paths and version tokens. There is one bundle per feature area, some
// bundles carry more than one operation.
var scriptBundles = []string{
	// Login
	"WodifyClient.controller.js",
	// LocationsPrograms
	"WodifyClient_CS.controller.js",
	// GetClassesAttendance
	"WodifyClient_Class.Classes.Attendance.mvc.js",
	// CreateClassReservation, CancelClassReservation, SignInClass
	"WodifyClient_Class.Classes.Class.mvc.js",
	// GetClasses
	"WodifyClient_Performance.Exercise.Modal_WorkoutSignInToClass.mvc.js",
	// GetAllWorkoutData
	"WodifyClient_DataFetch_WB.WOD_Flow.GetAllWorkoutData_WB.mvc.js",
	// GetClasses
	"WodifyClient_DataFetch_WB.Schedule_OS.GetClassList_ForClient_WithReservationCounts_WB.mvc.js",
	// GetClassAccesses
	"WodifyClient_DataFetch_WB.Schedule_OS.GetClassListAccesses_WB.mvc.js",
	// GetCustomerDateTime
	"WodifyClient_DataFetch_WB.Customer_OS.GetCustomerDateTime_WB.mvc.js",
}

// Api is the resolved location of a single operation.
type Api struct {
	Endpoint   string `json:"endpoint"`
	ApiVersion string `json:"apiVersion"`
}

// EndpointCache maps every Operation to its Api. It is immutable once built.
type EndpointCache struct {
	apis map[Operation]Api
}

func (c EndpointCache) Get(op Operation) (Api, bool) {
	api, ok := c.apis[op]
	return api, ok
}

func (c EndpointCache) Len() int {
	return len(c.apis)
}

// Session holds everything required to authorize calls made after login.
// It is only valid with the exact csrf token and cookie captured by the same login.
type Session struct {
	CsrfToken string `json:"CsrfToken"`
	Cookie    string `json:"Cookie"`
	User      User   `json:"User"`
	Customer  string `json:"Customer"`
}

type User struct {
	ActiveLocationId         string  `json:"ActiveLocationId"`
	ClientHasProgression     bool    `json:"ClientHasProgression"`
	CustomerId               string  `json:"CustomerId"`
	CustomerPublicName       string  `json:"CustomerPublicName"`
	DateOfBirth              string  `json:"DateOfBirth"`
	DefaultTab               int     `json:"DefaultTab"`
	FirstDayOfWeek           int     `json:"FirstDayOfWeek"`
	FirstName                string  `json:"FirstName"`
	GenderId                 string  `json:"GenderId"`
	GlobalUserId             string  `json:"GlobalUserId"`
	GymProgramId             string  `json:"GymProgramId"`
	IsAdmin                  bool    `json:"IsAdmin"`
	IsBirthdayPrivate        bool    `json:"IsBirthdayPrivate"`
	IsCoach                  bool    `json:"IsCoach"`
	IsManager                bool    `json:"IsManager"`
	IsNonPrd                 bool    `json:"IsNonPrd"`
	IsUse24HourTime          bool    `json:"IsUse24HourTime"`
	IsUserSuspended          bool    `json:"IsUserSuspended"`
	IsWorkoutTrackingEnabled bool    `json:"IsWorkoutTrackingEnabled"`
	LastName                 string  `json:"LastName"`
	LocalTimeZoneDifference  float64 `json:"LocalTimeZoneDifference"`
	SystemOfMeasureDistance  int     `json:"SystemOfMeasureDistance"`
	SystemOfMeasureWeight    int     `json:"SystemOfMeasureWeight"`
	UserAllowedToComment     bool    `json:"UserAllowedToComment"`
	UserId                   string  `json:"UserId"`
	UserProfileImageURL      string  `json:"UserProfileImageURL"`
}

type Program struct {
	Name         string `json:"Name"`
	ProgramId    string `json:"ProgramId"`
	LocationId   string `json:"LocationId"`
	LocationName string `json:"LocationName"`
}

type Class struct {
	CanCancelSignIn          bool   `json:"CanCancelSignIn"`
	CanSignin                bool   `json:"CanSignin"`
	ClassLimit               int    `json:"ClassLimit"`
	ClassReservationStatusId string `json:"ClassReservationStatusId"`
	CoachImgUrl              string `json:"CoachImgUrl"`
	CoachName                string `json:"CoachName"`
	Description              string `json:"Description"`
	EndTime                  string `json:"EndTime"`
	Id                       string `json:"Id"`
	IsAvailable              bool   `json:"IsAvailable"`
	IsWaitlisting            bool   `json:"IsWaitlisting"`
	Name                     string `json:"Name"`
	OnlineMembershipSaleId   string `json:"OnlineMembershipSaleId"`
	ProgramId                string `json:"ProgramId"`
	ReservationCount         int    `json:"ReservationCount"`
	StartTime                string `json:"StartTime"`
	Status                   string `json:"Status"`
	WaitlistCount            int    `json:"WaitlistCount"`
	WaitlistTypeId           string `json:"WaitlistTypeId"`
}

type ClassAccess struct {
	BlockedMessageSpan               string `json:"BlockedMessageSpan"`
	BlockedMessageTitle              string `json:"BlockedMessageTitle"`
	CanCancelReservation             bool   `json:"CanCancelReservation"`
	CanCancelSignin                  bool   `json:"CanCancelSignin"`
	CanCancelWaitlist                bool   `json:"CanCancelWaitlist"`
	CancelNoShowButtonText           string `json:"CancelNoShowButtonText"`
	CancelPolicyText                 string `json:"CancelPolicyText"`
	CanReserve                       bool   `json:"CanReserve"`
	CanSignin                        bool   `json:"CanSignin"`
	CanWaitlist                      bool   `json:"CanWaitlist"`
	ClassLimitModalTerm              string `json:"ClassLimitModalTerm"`
	ClassLimitModalValue             string `json:"ClassLimitModalValue"`
	ClassReservationId               string `json:"ClassReservationId"`
	IsBlocked                        bool   `json:"IsBlocked"`
	IsSignedIn                       bool   `json:"IsSignedIn"`
	IsWaitlisting                    bool   `json:"IsWaitlisting"`
	IsWorkoutAvailable               bool   `json:"IsWorkoutAvailable"`
	NoShowPolicyText                 string `json:"NoShowPolicyText"`
	ShowAlternateBlockedMessage      bool   `json:"ShowAlternateBlockedMessage"`
	ShowClassLimitReachedModal       bool   `json:"ShowClassLimitReachedModal"`
	ShowNoClassesRemainingModal      bool   `json:"ShowNoClassesRemainingModal"`
	ShowClassIsFullFromWaitlistModal bool   `json:"ShowClassIsFullFromWaitlistModal"`
	IsInLateCancellationWindow       bool   `json:"IsInLateCancellationWindow"`
	ClassAttendanceVisible           bool   `json:"ClassAttendanceVisible"`
}

type WeightLiftingComponents struct {
	List []string `json:"List"`
}

// WorkoutComponent is either a section header (IsSection) or a workout block.
// Components come in an ordered sequence where a component belongs to the
// nearest preceding section header.
type WorkoutComponent struct {
	Name                         string                  `json:"Name"`
	IsSection                    bool                    `json:"IsSection"`
	Comment                      string                  `json:"Comment"`
	Description                  string                  `json:"Description"`
	IsWeightlifting              bool                    `json:"IsWeightlifting"`
	TotalWeightLiftingComponents WeightLiftingComponents `json:"TotalWeightLiftingComponents"`
	MeasureRepScheme             string                  `json:"MeasureRepScheme"`
}

type ReservationStatusId string

const (
	STATUS_NONE      ReservationStatusId = "0"
	STATUS_CANCELLED ReservationStatusId = "1"
	STATUS_RESERVED  ReservationStatusId = "2"
	STATUS_SIGNED_IN ReservationStatusId = "3"
)

type ReservationStatus struct {
	Error_Schedule RequestError        `json:"Error_Schedule"`
	Message        string              `json:"Message"`
	NewStatusId    ReservationStatusId `json:"NewStatusId"`
	MessageTypeId  int                 `json:"MessageTypeId"`
}

type CustomerDateTime struct {
	CurrentDate     string `json:"CurrentDate"`
	CurrentTime     string `json:"CurrentTime"`
	CurrentDateTime string `json:"CurrentDateTime"`
}

// RequestError is the error indicator wodify embeds into its responses.
type RequestError struct {
	HasError     bool   `json:"HasError"`
	ErrorMessage string `json:"ErrorMessage"`
}

type moduleInfoResponse struct {
	Manifest struct {
		UrlVersions map[string]string `json:"urlVersions"`
	} `json:"manifest"`
}
